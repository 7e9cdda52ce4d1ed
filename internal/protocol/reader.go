package protocol

import "encoding/binary"

// reader is a bounds-checked big-endian cursor over a byte slice.
// Offsets in errors are reported relative to base so that nested regions
// (the status block inside a frame) point at absolute frame positions.
type reader struct {
	buf  []byte
	off  int
	base int
}

func newReader(buf []byte, base int) *reader {
	return &reader{buf: buf, base: base}
}

// offset returns the absolute offset of the next unread byte
func (r *reader) offset() int {
	return r.base + r.off
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

// next consumes n bytes and returns them without copying
func (r *reader) next(field string, n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, newLengthError(field, r.offset(), uint64(r.remaining()), uint64(n))
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) skip(field string, n int) error {
	_, err := r.next(field, n)
	return err
}

func (r *reader) uint8(field string) (uint8, error) {
	b, err := r.next(field, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) uint16(field string) (uint16, error) {
	b, err := r.next(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) uint32(field string) (uint32, error) {
	b, err := r.next(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) expect8(field string, want uint8) error {
	at := r.offset()
	got, err := r.uint8(field)
	if err != nil {
		return err
	}
	if got != want {
		return newFormatError(field, at, uint64(got), uint64(want))
	}
	return nil
}

func (r *reader) expect16(field string, want uint16) error {
	at := r.offset()
	got, err := r.uint16(field)
	if err != nil {
		return err
	}
	if got != want {
		return newFormatError(field, at, uint64(got), uint64(want))
	}
	return nil
}
