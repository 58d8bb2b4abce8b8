package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"restaurant-discovery-be/internal/entity"

	"golang.org/x/text/unicode/norm"
)

// roadSuffixPattern matches the tail of a whitespace-delimited address token
// that names a Korean road: a 로/ro suffix optionally followed by a number
// run and 길/gil, or a bare 길/gil suffix.
var roadSuffixPattern = regexp.MustCompile(`(?:로|ro)[0-9]*(?:길|gil)?$|[0-9]*(?:길|gil)$`)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate derives the shared primary key of both stores from an analyzed
// name and address: SHA-256 over "name|roadName", hex-encoded. The address is
// brought to canonical composed form first so visually identical Hangul
// spellings hash the same.
func (g *Generator) Generate(name, address string) (string, error) {
	roadName, err := g.extractRoadName(address)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(name + "|" + roadName))
	return hex.EncodeToString(sum[:]), nil
}

// extractRoadName returns the first road-name token of the address. There is
// no fallback: a guessed identity could silently merge unrelated restaurants
// under one id, so a missing token is a hard error.
func (g *Generator) extractRoadName(address string) (string, error) {
	normalized := norm.NFC.String(address)
	for _, token := range strings.Fields(normalized) {
		if roadSuffixPattern.MatchString(token) {
			return token, nil
		}
	}
	return "", fmt.Errorf("%w: no road name token in address %q", entity.ErrAddressNormalization, address)
}
