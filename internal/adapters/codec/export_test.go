// export_test.go exports private functions for white-box testing.
package codec

// Seal frames a raw body the way the encoder does.
var Seal = seal
