package images

import (
	"bytes"
	"encoding/binary"
	"errors"
)

type DpiType uint8

const (
	DpiNoUnits DpiType = iota
	DpiPxPerInch
	DpiPxPerSm
)

// EnsureJFIFAPP0 inserts JFIF APP0 marker segment if it is missing. Some
// comic readers refuse JPEG pages without it.
func EnsureJFIFAPP0(data []byte, dpit DpiType, xdensity, ydensity int16) ([]byte, bool, error) {
	if len(data) < 4 {
		return nil, false, errors.New("jpeg too small")
	}
	if data[0] != 0xFF || data[1] != 0xD8 {
		return nil, false, errors.New("not a jpeg")
	}

	// APP0 already there
	if data[2] == 0xFF && data[3] == 0xE0 {
		return data, false, nil
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(data)+18))
	buf.Write(data[:2])
	buf.Write([]byte{0xFF, 0xE0})
	_ = binary.Write(buf, binary.BigEndian, uint16(0x10))
	buf.Write([]byte("JFIF\x00\x01\x02"))
	buf.WriteByte(byte(dpit))
	_ = binary.Write(buf, binary.BigEndian, uint16(xdensity))
	_ = binary.Write(buf, binary.BigEndian, uint16(ydensity))
	// no thumbnail
	_ = binary.Write(buf, binary.BigEndian, uint16(0))
	buf.Write(data[2:])
	return buf.Bytes(), true, nil
}
