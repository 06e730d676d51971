package crypto

import (
	"github.com/vaultpass/passgen/internal/policy"
)

// Generate draws r.Length characters independently and uniformly from the
// alphabet of r.Spec. Repeats are allowed. r must come from policy.Resolve.
func Generate(r policy.Resolved, src Source) string {
	alphabet := r.Spec.Alphabet()
	if alphabet == "" || r.Length <= 0 {
		return ""
	}

	result := make([]byte, r.Length)
	for i := range result {
		result[i] = alphabet[Uniform(src, len(alphabet))]
	}
	return string(result)
}
