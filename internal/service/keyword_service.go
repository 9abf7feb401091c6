package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
	"github.com/lshigami/kwizify/internal/apperr"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type KeywordService interface {
	// Extract returns the unique lower-cased nouns, proper nouns and adjectives of text
	// in first-seen order.
	Extract(text string) ([]string, error)
}

type keywordService struct{}

func NewKeywordService() KeywordService {
	return &keywordService{}
}

const minKeywordLen = 3

// keywordTags are the Penn Treebank tags kept: nouns, proper nouns and adjectives.
var keywordTags = map[string]struct{}{
	"NN": {}, "NNS": {}, "NNP": {}, "NNPS": {},
	"JJ": {}, "JJR": {}, "JJS": {},
}

func (s *keywordService) Extract(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		log.Error().Err(err).Int("length", len(text)).Msg("KeywordService.Extract: tagging failed")
		return nil, fmt.Errorf("%w: failed to tag text: %v", apperr.ErrValidation, err)
	}

	// Casers keep state and are not shared between calls.
	lower := cases.Lower(language.English)

	tokens := doc.Tokens()
	seen := make(map[string]struct{})
	keywords := make([]string, 0)
	for _, tok := range tokens {
		if _, keep := keywordTags[tok.Tag]; !keep {
			continue
		}
		word := strings.Trim(lower.String(tok.Text), "-'")
		if utf8.RuneCountInString(word) < minKeywordLen || !hasLetter(word) {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	log.Info().Int("tokens", len(tokens)).Int("keywords", len(keywords)).Msg("Keywords extracted")
	return keywords, nil
}

// hasLetter drops punctuation and numbers the tagger occasionally labels as nouns.
func hasLetter(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`
a about above across after afterwards again against all almost alone along already also
although always am among amongst amount an and another any anyhow anyone anything anyway
anywhere are around as at back be became because become becomes becoming been before
beforehand behind being below beside besides between beyond both bottom but by call can
cannot could did do does doing done down due during each either else elsewhere empty
enough even ever every everyone everything everywhere except few first for former formerly
from front full further get give go had has have he hence her here hereafter hereby herein
hereupon hers herself him himself his how however i if in indeed into is it its itself
just keep last latter latterly least less made make many may me meanwhile might mine more
moreover most mostly move much must my myself name namely neither never nevertheless next
no nobody none noone nor not nothing now nowhere of off often on once one only onto or
other others otherwise our ours ourselves out over own part per perhaps please put quite
rather really regarding same say see seem seemed seeming seems serious several she should
show side since so some somehow someone something sometime sometimes somewhere still such
take than that the their them themselves then thence there thereafter thereby therefore
therein thereupon these they third this those though three through throughout thru thus
to together too top toward towards two under unless until up upon us used using various
very via was we well were what whatever when whence whenever where whereafter whereas
whereby wherein whereupon wherever whether which while whither who whoever whole whom
whose why will with within without would yet you your yours yourself yourselves
`)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
