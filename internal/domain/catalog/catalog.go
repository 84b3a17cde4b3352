// Package catalog is a fixed set of named example molecules grouped by
// structural class, used by the CLI and the HTTP API as ready-made input.
package catalog

import (
	"sort"
	"strings"

	"github.com/turtacn/molsdg/pkg/errors"
)

// Entry is one example molecule.
type Entry struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	SMILES   string `json:"smiles"`
}

// Key returns "category/name".
func (e Entry) Key() string { return e.Category + "/" + e.Name }

var examples = map[string]map[string]string{
	"hydrocarbons": {
		"hexane":    "CCCCCC",
		"hexene":    "C=CCCCC",
		"hexyne":    "C#CCCCC",
		"isohexane": "CC(C)CCC",
	},
	"organic": {
		"acetic-acid":          "CC(=O)O",
		"p-bromochlorobenzene": "C1=CC(=CC=C1Cl)Br",
		"vanillin":             "O=Cc1ccc(O)c(OC)c1",
		"toluene":              "Cc1ccccc1",
		"benzenesulfonic-acid": "c1ccc(cc1)S(=O)(=O)O",
		"o-xylene":             "Cc1ccccc1C",
		"m-xylene":             "Cc1cccc(c1)C",
		"p-xylene":             "Cc1ccc(cc1)C",
		"dinitroaniline":       "O=[N+]([O-])c1cc(ccc1N)[N+]([O-])=O",
	},
	"biochem": {
		"adenine":  "n1c(c2c(nc1)ncn2)N",
		"guanine":  "c1[nH]c2c(n1)c(=O)[nH]c(n2)N",
		"cytosine": "c1cnc(=O)[nH]c1N",
		"thymine":  "Cc1c[nH]c(=O)[nH]c1=O",
		"uracil":   "c1c[nH]c(=O)[nH]c1=O",
	},
	"pah": {
		"naphthalene":           "c1cccc2c1cccc2",
		"anthracene":            "c1ccc2cc3ccccc3cc2c1",
		"acenaphthene":          "c2cc1cccc3c1c(c2)CC3",
		"chrysene":              "c1ccc2c(c1)ccc3c2ccc4c3cccc4",
		"dibenz-a-h-anthracene": "c1ccc2c(c1)ccc3c2cc4ccc5ccccc5c4c3",
		"benzo-k-fluoranthene":  "c1ccc2cc-3c(cc2c1)-c4cccc5c4c3ccc5",
		"coronene":              "c1cc2ccc3ccc4ccc5ccc6ccc1c7c2c3c4c5c67",
	},
	"multiring": {
		"trichloroethyl-dibenzene": "ClC(Cl)(Cl)C(c1ccccc1)c2ccccc2",
		"phenethyl-tetralin":       "c3ccc2c(CCCC2CCc1ccccc1)c3",
		"biphenyl":                 "c1ccc(cc1)-c1ccccc1",
		"azo-naphthol-sulfonate":   "c1ccc2c(c1)ccc(c2N=Nc3ccc(cc3S(=O)(=O)O)N=Nc4ccc(cc4)S(=O)(=O)O)O",
	},
	"spiro": {
		"spiro-decane":     "C1CCC2(C1)CCCCC2",
		"azaspirodecanone": "O=C2NCC1(CCCCC1)C2",
		"fluorescein":      "c1ccc2c(c1)C(=O)OC23c4ccc(cc4Oc5c3ccc(c5)O)O",
		"irbesartan":       "O=C1N(\\C(=N/C12CCCC2)CCCC)Cc5ccc(c3ccccc3c4nnnn4)cc5",
	},
	"bridged": {
		"norbornane":   "C1CC2CCC1C2",
		"adamantane":   "C1C2CC3CC1CC(C2)C3",
		"trogers-base": "c1(ccc3c(c1)CN4c2ccc(cc2CN3C4)C)C",
		"pericine":     "c23c1ccccc1nc2\\C(=C)[C@H]4C(=C/C)\\CN(CC3)CC4",
	},
	"stereochem": {
		"ciprofloxacin": "c1c2c(cc(c1F)N3CCNCC3)n(cc(c2=O)C(=O)O)C4CC4",
		"atp":           "c1nc(c2c(n1)n(cn2)[C@H]3[C@@H]([C@@H]([C@H](O3)CO[P@@](=O)(O)O[P@@](=O)(O)OP(=O)(O)O)O)O)N",
		"luciferin":     "O=C(O)[C@@H]1NC(/SC1)=C2/S\\C\\3=C\\C(=O)\\C=C/C/3=N2",
		"griseofulvin":  "O=C2c3c(O[C@@]21C(/OC)=C\\C(=O)C[C@H]1C)c(Cl)c(OC)cc3OC",
	},
}

// Categories returns the category names in ascending order.
func Categories() []string {
	out := make([]string, 0, len(examples))
	for c := range examples {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// List returns the entries of category, or of every category when category
// is empty, ordered by category then name.
func List(category string) ([]Entry, error) {
	cats := Categories()
	if category != "" {
		if _, ok := examples[category]; !ok {
			return nil, errors.New(errors.ErrCodeExampleNotFound, "unknown example category").
				WithDetail("category=" + category)
		}
		cats = []string{category}
	}
	var out []Entry
	for _, c := range cats {
		names := make([]string, 0, len(examples[c]))
		for n := range examples[c] {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			out = append(out, Entry{Category: c, Name: n, SMILES: examples[c][n]})
		}
	}
	return out, nil
}

// Lookup resolves key, which is either "category/name" or a bare name.
// A bare category name resolves to the category's first entry by name.
func Lookup(key string) (Entry, error) {
	key = strings.TrimSpace(key)
	if cat, name, ok := strings.Cut(key, "/"); ok {
		if smi, found := examples[cat][name]; found {
			return Entry{Category: cat, Name: name, SMILES: smi}, nil
		}
		return Entry{}, notFound(key)
	}
	for _, c := range Categories() {
		if smi, ok := examples[c][key]; ok {
			return Entry{Category: c, Name: key, SMILES: smi}, nil
		}
	}
	if _, ok := examples[key]; ok {
		entries, err := List(key)
		if err != nil {
			return Entry{}, err
		}
		return entries[0], nil
	}
	return Entry{}, notFound(key)
}

func notFound(key string) *errors.AppError {
	return errors.New(errors.ErrCodeExampleNotFound, "unknown example").WithDetail("key=" + key)
}

//Personal.AI order the ending
