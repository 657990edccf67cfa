// Package compress implements the compressed public-key encoding. The
// torsion point images of a public key are replaced by their coordinates
// with respect to a canonical basis of the curve, recovered with Weil
// pairings and Pohlig-Hellman discrete logarithms.
//
// Everything here operates on public keys only and takes variable time.
package compress
