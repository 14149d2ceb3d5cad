package raster

import "errors"

// Error kinds reported by the engine. Returned errors wrap one of these,
// test them with errors.Is.
var (
	ErrConfiguration   = errors.New("configuration error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAllocation      = errors.New("allocation failure")
)

const maxErrors = 20

// Context is a dispatch surface for the engine operations that reports
// failures through an error stack instead of returned errors. Each call
// clears the stack before doing anything else.
//
// A Context must not be shared between goroutines.
type Context struct {
	// OnFailure, if set, is called with the error stack each time an
	// operation fails.
	OnFailure func(errs []error)

	errs []error
}

// Clear empties the error stack.
func (c *Context) Clear() {
	c.errs = c.errs[:0]
}

// Push adds err and every error it wraps to the stack. Nothing is pushed
// once the stack holds maxErrors entries.
func (c *Context) Push(err error) {
	for err != nil && len(c.errs) < maxErrors {
		c.errs = append(c.errs, err)
		err = errors.Unwrap(err)
	}
}

// Errors returns the error stack, outermost error first.
func (c *Context) Errors() []error {
	return append([]error(nil), c.errs...)
}

func (c *Context) fail(err error) {
	c.Push(err)
	Logger().Debug("operation failed", "error", err)
	if c.OnFailure != nil {
		c.OnFailure(c.Errors())
	}
}

// Convert calls Convert and reports whether it succeeded.
func (c *Context) Convert(dst, src *Image, coeff []float64, outChannels, inChannels int) bool {
	c.Clear()
	if err := Convert(dst, src, coeff, outChannels, inChannels); err != nil {
		c.fail(err)
		return false
	}
	return true
}

// Rotate90 calls Rotate90 and returns nil on failure.
func (c *Context) Rotate90(src *Image, degrees int) *Image {
	c.Clear()
	img, err := Rotate90(src, degrees)
	if err != nil {
		c.fail(err)
		return nil
	}
	return img
}

// MatrixTransform calls MatrixTransform and returns nil on failure.
func (c *Context) MatrixTransform(src *Image, width, height int, m Matrix, bg *Background) *Image {
	c.Clear()
	img, err := MatrixTransform(src, width, height, m, bg)
	if err != nil {
		c.fail(err)
		return nil
	}
	return img
}

// RotateExact calls RotateExact and returns nil on failure.
func (c *Context) RotateExact(src *Image, angle float64, bg *Background) *Image {
	c.Clear()
	img, err := RotateExact(src, angle, bg)
	if err != nil {
		c.fail(err)
		return nil
	}
	return img
}
