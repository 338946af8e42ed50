package libretro

/*
#include <stdlib.h>
*/
import "C"
import "unsafe"

// cAlloc allocates zeroed storage outside the Go heap. It is never freed:
// the frontend may hold pointers into it for as long as the library is
// loaded.
func cAlloc(n int) []byte {
	if n == 0 {
		return nil
	}
	p := C.calloc(C.size_t(n), 1)
	if p == nil {
		panic("libretro: out of memory")
	}
	return unsafe.Slice((*byte)(p), n)
}
