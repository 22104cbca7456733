package naver

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jslee/stockpick/internal/contracts"
)

// maxThemes bounds how many themes one pass collects
const maxThemes = 30

var themeNoRe = regexp.MustCompile(`[?&]no=(\d+)`)

// Themes fetches the theme table and each theme's member stocks.
// ⭐ SSOT: Naver Finance 테마 수집은 이 함수에서만
// 상위 maxThemes개만 수집 — 테이블 순서가 테마 발견 순서가 된다.
func (c *Client) Themes(ctx context.Context) ([]contracts.ThemeInput, error) {
	listURL := c.baseURL + "/sise/theme.naver"

	resp, err := c.httpClient.GetWithHeaders(ctx, listURL, c.defaultHeaders())
	if err != nil {
		return nil, fmt.Errorf("fetch theme list: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse theme list: %w", err)
	}

	entries := parseThemeTable(doc)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no themes found in page")
	}
	if len(entries) > maxThemes {
		entries = entries[:maxThemes]
	}

	inputs := make([]contracts.ThemeInput, 0, len(entries))
	for _, entry := range entries {
		input := contracts.ThemeInput{
			ThemeCode:  entry.code,
			Name:       entry.name,
			ChangeRate: entry.changeRate,
		}

		members, err := c.themeMembers(ctx, entry.detailPath)
		if err != nil {
			c.logger.WithError(err).WithField("theme", entry.name).Warn("Failed to fetch theme members")
		}
		input.MemberTickers = members

		inputs = append(inputs, input)
	}

	c.logger.WithField("count", len(inputs)).Info("Collected themes")
	return inputs, nil
}

type themeEntry struct {
	code       string
	name       string
	changeRate string
	detailPath string
}

// parseThemeTable parses the theme ranking table (table.type_1).
// 처음 두 행은 헤더라 건너뛴다.
func parseThemeTable(doc *goquery.Document) []themeEntry {
	var entries []themeEntry

	doc.Find("table.type_1 tr").Each(func(i int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 4 {
			return
		}

		link := cols.Eq(0).Find("a").First()
		name := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if name == "" || href == "" {
			return
		}

		code := ""
		if m := themeNoRe.FindStringSubmatch(href); m != nil {
			code = "theme-" + m[1]
		} else {
			code = slugify(name)
		}

		entries = append(entries, themeEntry{
			code:       code,
			name:       name,
			changeRate: strings.TrimSpace(cols.Eq(2).Text()),
			detailPath: href,
		})
	})

	return entries
}

// themeMembers fetches member tickers from a theme detail page
func (c *Client) themeMembers(ctx context.Context, detailPath string) ([]string, error) {
	if detailPath == "" {
		return nil, nil
	}

	detailURL := detailPath
	if strings.HasPrefix(detailPath, "/") {
		detailURL = c.baseURL + detailPath
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, detailURL, c.defaultHeaders())
	if err != nil {
		return nil, fmt.Errorf("fetch theme detail: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse theme detail: %w", err)
	}

	return parseThemeMembers(doc), nil
}

// parseThemeMembers extracts stock codes from the detail page's name column links
func parseThemeMembers(doc *goquery.Document) []string {
	var tickers []string
	seen := make(map[string]bool)

	doc.Find("td.name a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		u, err := url.Parse(href)
		if err != nil {
			return
		}

		code := u.Query().Get("code")
		if code == "" || seen[code] {
			return
		}
		seen[code] = true
		tickers = append(tickers, code)
	})

	return tickers
}

// slugify builds a fallback theme code from its name
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune('-')
		default:
			// 한글 등은 유니코드 그대로 유지 — 코드 유일성이 목적
			b.WriteRune(r)
		}
	}
	return b.String()
}
