// Package field implements constant-time arithmetic in GF(p) and
// GF(p^2) = GF(p)[i]/(i^2+1) for SIDH primes p = 2^a * 3^b - 1.
//
// Elements are kept in Montgomery form over a fixed array of limbs; the
// active limb count comes from the owning Field, so one implementation serves
// every supported prime. Routines whose names end in Vartime, and the square
// root helpers, branch on their input and must only see public values.
package field
