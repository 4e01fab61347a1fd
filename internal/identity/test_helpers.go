package identity

import "fmt"

// Test helpers for constructing legacy identifier strings.

func genLegacyID(parity, z int64) string {
	return fmt.Sprintf("STEAM_0:%d:%d", parity, z)
}

func genBracketID(y int64) string {
	return fmt.Sprintf("[U:1:%d]", y)
}
