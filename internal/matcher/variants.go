package matcher

import "strings"

// nicknamePair links a canonical first name with its common short form.
// Substitution runs in both directions. The list is ordered so variant
// generation is deterministic.
type nicknamePair struct {
	canonical string
	nick      string
}

var nicknamePairs = []nicknamePair{
	{"william", "bill"},
	{"robert", "bob"},
	{"james", "jim"},
	{"richard", "rick"},
	{"michael", "mike"},
	{"david", "dave"},
	{"christopher", "chris"},
	{"matthew", "matt"},
	{"anthony", "tony"},
	{"joseph", "joe"},
	{"daniel", "dan"},
	{"andrew", "andy"},
	{"kenneth", "ken"},
	{"elizabeth", "liz"},
	{"patricia", "pat"},
	{"jennifer", "jen"},
	{"margaret", "meg"},
	{"catherine", "kate"},
	{"stephanie", "steph"},
}

// nameVariants generates the deterministic variant set for a normalized
// name: token order reversed, middle tokens dropped when more than two
// tokens exist, and nickname substitution of the first token in both
// directions. Single-token names produce no variants.
func nameVariants(name string) []string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return nil
	}

	var variants []string
	variants = append(variants, parts[len(parts)-1]+" "+parts[0])
	if len(parts) > 2 {
		variants = append(variants, parts[0]+" "+parts[len(parts)-1])
	}

	first := parts[0]
	rest := strings.Join(parts[1:], " ")
	for _, p := range nicknamePairs {
		if first == p.canonical {
			variants = append(variants, p.nick+" "+rest)
		}
		if first == p.nick {
			variants = append(variants, p.canonical+" "+rest)
		}
	}

	return variants
}
