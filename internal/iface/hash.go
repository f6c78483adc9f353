package iface

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// DomainInterface is the domain prefix for interface fingerprints.
// The version suffix leaves room for a future fingerprint migration.
const DomainInterface = "parity/interface/v1"

// Fingerprint computes a stable content hash of an interface document.
//
// The fingerprint is built from sorted module, function and type
// entries using canonical type keys, so it is independent of map
// iteration order and of variable numbering inside type definitions.
// The history store uses it to tell whether two recorded runs saw the
// same surface.
func Fingerprint(in *Interface) string {
	var b strings.Builder

	for _, path := range sortedKeys(in.Modules) {
		mod := in.Modules[path]
		b.WriteString("module ")
		b.WriteString(path)
		b.WriteByte('\n')

		for _, name := range sortedKeys(mod.Functions) {
			b.WriteString("fn ")
			b.WriteString(name)
			b.WriteByte('(')
			b.WriteString(strings.Join(mod.Functions[name].Labels(), ","))
			b.WriteString(")\n")
		}
		for _, name := range sortedKeys(mod.Types) {
			b.WriteString("type ")
			b.WriteString(name)
			b.WriteByte(' ')
			b.WriteString(DefKey(mod.Types[name]))
			b.WriteByte('\n')
		}
		for _, name := range sortedKeys(mod.Aliases) {
			b.WriteString("alias ")
			b.WriteString(name)
			b.WriteByte(' ')
			b.WriteString(AliasKey(mod.Aliases[name]))
			b.WriteByte('\n')
		}
	}

	return hashWithDomain(DomainInterface, []byte(b.String()))
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
