package display

import (
	"errors"
	"image"
)

// Tee forwards every call to a primary sink and a set of mirrors.
// Size comes from the primary; mirror failures never hide a primary error.
type Tee struct {
	Primary Sink
	Mirrors []Sink
}

func NewTee(primary Sink, mirrors ...Sink) *Tee {
	return &Tee{Primary: primary, Mirrors: mirrors}
}

func (t *Tee) Size() (int, int) { return t.Primary.Size() }

func (t *Tee) SetImage(img image.Image, x, y int) error {
	return t.each(func(s Sink) error { return s.SetImage(img, x, y) })
}

func (t *Tee) Clear() error {
	return t.each(func(s Sink) error { return s.Clear() })
}

func (t *Tee) Close() error {
	return t.each(func(s Sink) error { return s.Close() })
}

func (t *Tee) each(fn func(Sink) error) error {
	errs := []error{fn(t.Primary)}
	for _, m := range t.Mirrors {
		errs = append(errs, fn(m))
	}
	return errors.Join(errs...)
}
