// Package circlsidh adapts Cloudflare's circl SIDH implementation to the
// sidh.KeyAgreement interface for P434, P503 and P751 with uncompressed
// keys.
//
// Its encodings have the same lengths as the native engine's, but the two
// backends use different torsion bases, so keys and secrets are only
// meaningful between parties on the same backend. It exists for cross
// checking and benchmarking.
package circlsidh
