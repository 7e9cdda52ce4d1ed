package protocol

// Checksum computes the modulo-256 sum of every byte in window
func Checksum(window []byte) byte {
	var sum byte
	for _, b := range window {
		sum += b
	}
	return sum
}

// VerifyChecksum compares the checksum of window against the trailing
// byte carried by the frame and returns an integrity error on mismatch.
func VerifyChecksum(window []byte, carried byte) error {
	return verifyChecksum(window, carried, -1)
}

func verifyChecksum(window []byte, carried byte, offset int) error {
	if computed := Checksum(window); computed != carried {
		return newIntegrityError(offset, carried, computed)
	}
	return nil
}
