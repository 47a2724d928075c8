// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"encoding/binary"
	"math/bits"
)

// encodeAIFF builds an uncompressed AIFF file. samples are interleaved and
// stored with bitDepth/8 bytes each, big endian.
func encodeAIFF(sampleRate, channels, bitDepth int, samples []int32) []byte {
	width := bitDepth / 8
	be := binary.BigEndian

	ssnd := make([]byte, 8, 8+len(samples)*width)
	for _, s := range samples {
		var b [4]byte
		be.PutUint32(b[:], uint32(s))
		ssnd = append(ssnd, b[4-width:]...)
	}

	comm := make([]byte, 18)
	be.PutUint16(comm[0:2], uint16(channels))
	be.PutUint32(comm[2:6], uint32(len(samples)/channels))
	be.PutUint16(comm[6:8], uint16(bitDepth))
	rate := extended(sampleRate)
	copy(comm[8:18], rate[:])

	var body bytes.Buffer
	body.WriteString("AIFF")
	writeChunk(&body, "COMM", comm)
	writeChunk(&body, "SSND", ssnd)

	var out bytes.Buffer
	writeChunk(&out, "FORM", body.Bytes())

	return out.Bytes()
}

func writeChunk(w *bytes.Buffer, id string, data []byte) {
	w.WriteString(id)
	_ = binary.Write(w, binary.BigEndian, uint32(len(data)))
	w.Write(data)
	if len(data)%2 == 1 {
		w.WriteByte(0)
	}
}

// extended encodes a positive integer rate as an 80-bit IEEE 754 extended
// float.
func extended(rate int) [10]byte {
	var out [10]byte

	e := bits.Len64(uint64(rate)) - 1
	binary.BigEndian.PutUint16(out[0:2], uint16(16383+e))
	binary.BigEndian.PutUint64(out[2:10], uint64(rate)<<(63-e))

	return out
}
