package camellia

// encryptBlock runs the 24-round Feistel network (256-bit key schedule) on
// one 16-byte block, with FL/FLINV mixing layers after rounds 6, 12 and 18.
func encryptBlock(c *camelliaCipher, dst, src []byte) {
	d1 := beUint64(src[0:8]) ^ c.kw[0]
	d2 := beUint64(src[8:16]) ^ c.kw[1]

	for round := 1; round <= 24; round++ {
		key := c.k[round-1]
		if round%2 == 1 {
			d2 ^= f(d1, key)
		} else {
			d1 ^= f(d2, key)
		}
		switch round {
		case 6:
			d1 = fl(d1, c.ke[0])
			d2 = flInv(d2, c.ke[1])
		case 12:
			d1 = fl(d1, c.ke[2])
			d2 = flInv(d2, c.ke[3])
		case 18:
			d1 = fl(d1, c.ke[4])
			d2 = flInv(d2, c.ke[5])
		}
	}

	c1 := d2 ^ c.kw[2]
	c2 := d1 ^ c.kw[3]
	putBeUint64(dst[0:8], c1)
	putBeUint64(dst[8:16], c2)
}

// decryptBlock inverts encryptBlock by running the same network with the
// kw, k and ke subkeys in reverse order (FL still applies to d1, FLINV to
// d2).
func decryptBlock(c *camelliaCipher, dst, src []byte) {
	d1 := beUint64(src[0:8]) ^ c.kw[2]
	d2 := beUint64(src[8:16]) ^ c.kw[3]

	for round := 1; round <= 24; round++ {
		key := c.k[24-round]
		if round%2 == 1 {
			d2 ^= f(d1, key)
		} else {
			d1 ^= f(d2, key)
		}
		switch round {
		case 6:
			d1 = fl(d1, c.ke[5])
			d2 = flInv(d2, c.ke[4])
		case 12:
			d1 = fl(d1, c.ke[3])
			d2 = flInv(d2, c.ke[2])
		case 18:
			d1 = fl(d1, c.ke[1])
			d2 = flInv(d2, c.ke[0])
		}
	}

	m1 := d2 ^ c.kw[0]
	m2 := d1 ^ c.kw[1]
	putBeUint64(dst[0:8], m1)
	putBeUint64(dst[8:16], m2)
}
