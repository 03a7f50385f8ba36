package status

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"friendo-service/internal/models"
)

// DefaultVisible is how many tokens a friend's row shows before "show more".
const DefaultVisible = 5

// TokenRow is the rendered token list for one friend.
type TokenRow struct {
	Tokens    []Token `json:"tokens"`
	Total     int     `json:"total"`
	Truncated bool    `json:"truncated"`
}

// BuildTokenRow filters meetings to the current calendar year, sorts them
// ascending by date, derives a token for each and truncates to
// DefaultVisible unless showAll is set. Truncation is display-only; nothing
// is deleted.
func BuildTokenRow(meetings []models.Meeting, now time.Time, showAll bool) TokenRow {
	year := strconv.Itoa(now.Year())

	qualifying := make([]models.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if strings.HasPrefix(m.Date, year+"-") {
			qualifying = append(qualifying, m)
		}
	}
	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].Date < qualifying[j].Date
	})

	tokens := make([]Token, 0, len(qualifying))
	for _, m := range qualifying {
		tokens = append(tokens, TokenFor(m, Derive(m, now)))
	}

	row := TokenRow{Tokens: tokens, Total: len(tokens)}
	if !showAll && len(tokens) > DefaultVisible {
		row.Tokens = tokens[:DefaultVisible]
		row.Truncated = true
	}
	return row
}
