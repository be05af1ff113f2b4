package taxonomy

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
)

// HybridMarker joins the two parent names of a cross.
const HybridMarker = "×"

// DefaultMaxLineageDepth caps parent-chain traversal when no explicit
// limit is configured.
const DefaultMaxLineageDepth = 32

// LineageResolver supplies the taxon rows name composition walks over.
type LineageResolver interface {
	SpeciesByID(ctx context.Context, id uuid.UUID) (*models.Species, error)
	GenusByID(ctx context.Context, id uuid.UUID) (*models.Genus, error)
}

// NameComposer derives scientific display names from a species'
// recursive lineage. Traversal carries a visited set so a malformed
// parent chain surfaces as an error instead of unbounded recursion.
type NameComposer struct {
	resolver LineageResolver
	maxDepth int
}

// NewNameComposer builds a composer over the given resolver.
func NewNameComposer(resolver LineageResolver, maxDepth int) (*NameComposer, error) {
	if resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lineage resolver is required")
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxLineageDepth
	}
	return &NameComposer{resolver: resolver, maxDepth: maxDepth}, nil
}

// FullName returns the canonical display name for the species.
func (c *NameComposer) FullName(ctx context.Context, species *models.Species) (string, error) {
	visited := map[uuid.UUID]struct{}{}
	return c.fullName(ctx, species, visited, 0)
}

func (c *NameComposer) fullName(ctx context.Context, species *models.Species, visited map[uuid.UUID]struct{}, depth int) (string, error) {
	if species == nil {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "species not found")
	}
	if depth > c.maxDepth {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "species lineage exceeds max depth")
	}
	if _, seen := visited[species.ID]; seen {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "species lineage contains a cycle")
	}
	visited[species.ID] = struct{}{}

	switch species.Rank {
	case enums.SpeciesRankCultivar:
		return c.cultivarName(ctx, species, visited, depth)
	case enums.SpeciesRankCross:
		return c.crossName(ctx, species)
	default:
		return species.Name, nil
	}
}

func (c *NameComposer) cultivarName(ctx context.Context, species *models.Species, visited map[uuid.UUID]struct{}, depth int) (string, error) {
	if species.CultivarName == nil || strings.TrimSpace(*species.CultivarName) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cultivar name is required")
	}

	var parentName string
	if species.ParentSpeciesID != nil {
		parent, err := c.resolver.SpeciesByID(ctx, *species.ParentSpeciesID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cultivar parent species not found")
		}
		parentName, err = c.fullName(ctx, parent, visited, depth+1)
		if err != nil {
			return "", err
		}
	} else {
		genus, err := c.resolver.GenusByID(ctx, species.GenusID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cultivar genus not found")
		}
		parentName = genus.Name
	}

	return parentName + " '" + CapitalizeWords(*species.CultivarName) + "'", nil
}

func (c *NameComposer) crossName(ctx context.Context, species *models.Species) (string, error) {
	if species.CrossMomID == nil || species.CrossDadID == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cross requires both parent references")
	}

	mom, err := c.resolver.SpeciesByID(ctx, *species.CrossMomID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cross mom species not found")
	}
	dad, err := c.resolver.SpeciesByID(ctx, *species.CrossDadID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cross dad species not found")
	}

	if mom.GenusID != dad.GenusID || mom.GenusID != species.GenusID {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cross parents must share the cross's genus")
	}

	momName, err := crossParentName(mom)
	if err != nil {
		return "", err
	}
	dadName, err := crossParentName(dad)
	if err != nil {
		return "", err
	}

	genus, err := c.resolver.GenusByID(ctx, species.GenusID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cross genus not found")
	}

	return genus.Name + " " + momName + " " + HybridMarker + " " + dadName, nil
}

// crossParentName composes a parent's contribution from its specific
// epithet and quoted cultivar epithet, whichever are present.
func crossParentName(parent *models.Species) (string, error) {
	parts := []string{}
	if parent.SpeciesName != nil && strings.TrimSpace(*parent.SpeciesName) != "" {
		parts = append(parts, strings.TrimSpace(*parent.SpeciesName))
	}
	if parent.CultivarName != nil && strings.TrimSpace(*parent.CultivarName) != "" {
		parts = append(parts, "'"+CapitalizeWords(*parent.CultivarName)+"'")
	}
	if len(parts) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cross parent has neither species nor cultivar name")
	}
	return strings.Join(parts, " "), nil
}

// CapitalizeWords uppercases the first letter of every
// whitespace-delimited word and leaves the remaining characters
// untouched.
func CapitalizeWords(value string) string {
	words := strings.Fields(value)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ScientificPartsOfName tokenizes a composed display name and keeps
// only the portions a client should italicize. Quoted cultivar
// epithets stay atomic during the split, then are dropped along with
// the hybrid marker.
func ScientificPartsOfName(name string) []string {
	tokens := splitOutsideQuotes(name)

	parts := []string{}
	for _, token := range tokens {
		token = strings.Trim(token, "()")
		if token == "" || token == HybridMarker {
			continue
		}
		if strings.HasPrefix(token, "'") || strings.HasSuffix(token, "'") {
			continue
		}
		parts = append(parts, token)
	}
	return parts
}

// splitOutsideQuotes splits on whitespace, treating single-quoted
// spans as atomic tokens.
func splitOutsideQuotes(value string) []string {
	tokens := []string{}
	var current strings.Builder
	inQuote := false

	for _, r := range value {
		switch {
		case r == '\'':
			inQuote = !inQuote
			current.WriteRune(r)
		case unicode.IsSpace(r) && !inQuote:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}
