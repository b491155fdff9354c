// Package analysis evaluates the closed-loop behaviour of a synthesised
// controller numerically.
//
//   - [ImpulseResponse]: free response of the characteristic polynomial
//   - [Filter]: difference-equation simulation of a rational transfer
//     function
//   - [SettlingStep], [Peak]: scalar summaries of a response
//   - [MagnitudeSpectrum]: frequency content of a response
//
// # Example
//
//	char := poles.CharacteristicPolynomial(alpha, kbeta)
//	resp := analysis.ImpulseResponse(char, 40)
//	k := analysis.SettlingStep(resp, 0, 1e-6)
package analysis
