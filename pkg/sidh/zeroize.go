package sidh

import "runtime"

// ZeroizeBytes overwrites the provided slice with zeros and prevents compiler
// dead store elimination using runtime.KeepAlive.
//
// Callers own the private keys returned by SampleScalar and should wipe them
// once the shared secret has been derived. This cannot guarantee complete
// memory sanitization: the garbage collector may have moved or copied the
// backing array earlier.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	// Prevent dead store elimination per golang/go#33325
	runtime.KeepAlive(buf)
}
