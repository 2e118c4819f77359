package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tomnomnom/linkheader"
)

var ErrMalformedUrl = errors.New("malformed pagination url")

const (
	relNext  = "next"
	relPrev  = "prev"
	relFirst = "first"
	relLast  = "last"
)

// Links хранит строку запроса ("?page=2") каждой найденной связи
type Links struct {
	Next  *string
	Prev  *string
	First *string
	Last  *string
}

// Resolve разбирает значения заголовка Link. Неизвестные связи пропускаются,
// url, который не разбирается как абсолютный, делает ошибочным весь заголовок
func Resolve(header []string) (*Links, error) {
	links := &Links{}

	for _, l := range linkheader.ParseMultiple(header) {
		u, err := url.Parse(l.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedUrl, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("%w: %q is not absolute", ErrMalformedUrl, l.URL)
		}

		var query *string
		if u.RawQuery != "" {
			q := "?" + u.RawQuery
			query = &q
		}

		for _, rel := range strings.Fields(strings.ToLower(l.Rel)) {
			switch rel {
			case relNext:
				links.Next = query
			case relPrev:
				links.Prev = query
			case relFirst:
				links.First = query
			case relLast:
				links.Last = query
			}
		}
	}

	return links, nil
}
