package suggestions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// maxImportBytes bounds how much of a page is parsed; the rest is ignored.
const maxImportBytes = 2 << 20

// PageFetcher returns the readable text of a web page.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Importer fetches recipe pages over HTTP.
type Importer struct {
	client *http.Client
}

// NewImporter creates an Importer with the given request timeout.
func NewImporter(timeout time.Duration) *Importer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Importer{client: &http.Client{Timeout: timeout}}
}

func (i *Importer) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "mealboard-importer/1.0")

	resp, err := i.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxImportBytes))
	if err != nil {
		return "", err
	}

	// strip noise before handing text to the model
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
}
