package cpu

// The Sampler interface is implemented by uniform random number sources
// used while tracing a path.
type Sampler interface {
	// Get a uniformly distributed value in [0, 1).
	Float64() float64
}

const (
	rand48Mul  = 0x5DEECE66D
	rand48Add  = 0xB
	rand48Mask = 1<<48 - 1
)

// Rand48 is a 48-bit linear congruential generator that produces the same
// sequence as the erand48 C library function. It is not safe for concurrent
// use; every scanline gets its own instance.
type Rand48 struct {
	state uint64
}

// Create a generator from the three 16-bit words of an erand48 state buffer
// (least significant word first).
func NewRand48(xsubi [3]uint16) *Rand48 {
	return &Rand48{
		state: uint64(xsubi[2])<<32 | uint64(xsubi[1])<<16 | uint64(xsubi[0]),
	}
}

// Create the generator for scanline y. The seed only depends on the row index
// so the rendered image does not depend on how rows are assigned to tracers.
func NewRowRand(y uint32) *Rand48 {
	yy := uint64(y)
	return NewRand48([3]uint16{0, 0, uint16(yy * yy * yy & 0xffff)})
}

// Get the next value in [0, 1).
func (r *Rand48) Float64() float64 {
	r.state = (rand48Mul*r.state + rand48Add) & rand48Mask
	return float64(r.state) / (1 << 48)
}
