package audio

import (
	"bytes"
	"encoding/binary"
	"math"
)

// EncodeWAV renders a clip as a 16-bit PCM mono WAV payload, the format
// the transcription service accepts.
func EncodeWAV(c Clip) []byte {
	dataLen := len(c.Samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataLen))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(c.Rate))
	binary.Write(buf, binary.LittleEndian, uint32(c.Rate*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))        // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))       // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range c.Samples {
		v := int16(math.Max(-32768, math.Min(32767, s*32767)))
		binary.Write(buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}
