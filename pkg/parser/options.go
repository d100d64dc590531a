package parser

import (
	"time"

	"go.uber.org/zap"

	"github.com/kittclouds/quantkit/pkg/catalog"
	"github.com/kittclouds/quantkit/pkg/disambig"
	"github.com/kittclouds/quantkit/pkg/grammar"
	"github.com/kittclouds/quantkit/pkg/resolve"
	"github.com/kittclouds/quantkit/pkg/words"
)

// Options configure a Parser. The zero value loads the general catalog,
// disambiguates deterministically and logs nothing.
type Options struct {
	// Sources overlay the general catalog; later sources override
	// earlier definitions field by field.
	Sources []catalog.Source

	// Strategy resolves ambiguous surfaces and dimension signatures.
	// Nil falls back to the deterministic choice.
	Strategy disambig.Strategy

	// Logger receives per-match debug output. Nil means no logging.
	Logger *zap.Logger

	// MatchTimeout bounds a single scan of the text. Zero means
	// unbounded.
	MatchTimeout time.Duration
}

// Parser extracts quantities from unstructured text. It is safe for
// concurrent use once constructed.
type Parser struct {
	catalog  *catalog.Catalog
	grammar  *grammar.Grammar
	resolver *resolve.Resolver
	dict     *words.Dictionary
	log      *zap.Logger
}

// New builds a parser from the options.
func New(opts Options) (*Parser, error) {
	general, err := catalog.General()
	if err != nil {
		return nil, err
	}
	sources := append([]catalog.Source{general}, opts.Sources...)
	c, err := catalog.Load(sources...)
	if err != nil {
		return nil, err
	}

	g, err := grammar.For(c, opts.MatchTimeout)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Parser{
		catalog:  c,
		grammar:  g,
		resolver: resolve.New(c, opts.Strategy),
		dict:     words.New(c),
		log:      logger,
	}, nil
}

// Catalog exposes the loaded catalog, e.g. for inspecting what a
// returned unit decomposes into.
func (p *Parser) Catalog() *catalog.Catalog { return p.catalog }
