// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/pdiddy/get-papers-list/internal/logger"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// Fetch retrieves full records for ids and returns them in the order of ids.
// Records without a PMID, a title or any named author are dropped; a PMID
// missing from the response is simply absent from the result.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]types.Paper, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := c.params()
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")
	params.Set("rettype", "abstract")

	resp, err := c.post(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	papers, err := parseArticles(ctx, resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parsing efetch response")
	}
	return orderByIDs(papers, ids), nil
}

// parseArticles decodes a PubmedArticleSet document.
func parseArticles(ctx context.Context, r io.Reader) ([]types.Paper, error) {
	var set articleSet
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(&set); err != nil {
		return nil, err
	}

	papers := make([]types.Paper, 0, len(set.Articles))
	for _, a := range set.Articles {
		p, reason := a.toPaper()
		if reason != "" {
			logger.Debug(ctx, "skipping article", zap.String("pmid", p.ID), zap.String("reason", reason))
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

func orderByIDs(papers []types.Paper, ids []string) []types.Paper {
	byID := make(map[string]types.Paper, len(papers))
	for _, p := range papers {
		if _, dup := byID[p.ID]; !dup {
			byID[p.ID] = p
		}
	}
	ordered := make([]types.Paper, 0, len(papers))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
			delete(byID, id)
		}
	}
	return ordered
}

// PubMed efetch XML structures.
type articleSet struct {
	Articles []article `xml:"PubmedArticle"`
}

type article struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    string         `xml:"PMID"`
	Article articleElement `xml:"Article"`
}

type articleElement struct {
	Title       markup        `xml:"ArticleTitle"`
	PubDate     dateElement   `xml:"Journal>JournalIssue>PubDate"`
	ArticleDate []dateElement `xml:"ArticleDate"`
	Authors     []author      `xml:"AuthorList>Author"`
}

type dateElement struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

type author struct {
	ValidYN        string            `xml:"ValidYN,attr"`
	LastName       string            `xml:"LastName"`
	ForeName       string            `xml:"ForeName"`
	CollectiveName markup            `xml:"CollectiveName"`
	Affiliations   []affiliationInfo `xml:"AffiliationInfo"`
}

type affiliationInfo struct {
	Affiliation markup `xml:"Affiliation"`
}

// markup captures an element that may contain inline formatting
// (<i>, <sup>, ...) so its text can be flattened.
type markup struct {
	Inner string `xml:",innerxml"`
}

// Text returns the element's character data with tags removed and
// whitespace collapsed.
func (m markup) Text() string {
	return flatten(m.Inner)
}

// toPaper converts the record. A non-empty reason means the record is unusable.
func (a article) toPaper() (types.Paper, string) {
	c := a.Citation
	p := types.Paper{
		ID:    strings.TrimSpace(c.PMID),
		Title: c.Article.Title.Text(),
	}
	if p.ID == "" {
		return p, "missing PMID"
	}
	if p.Title == "" {
		return p, "missing title"
	}

	p.PublicationDate = c.Article.PubDate.format()
	if p.PublicationDate == "" {
		for _, d := range c.Article.ArticleDate {
			if p.PublicationDate = d.format(); p.PublicationDate != "" {
				break
			}
		}
	}

	for _, au := range c.Article.Authors {
		if strings.EqualFold(au.ValidYN, "N") {
			continue
		}
		name := au.name()
		if name == "" {
			continue
		}
		entry := types.Author{Name: name}
		for _, info := range au.Affiliations {
			if aff := info.Affiliation.Text(); aff != "" {
				entry.Affiliations = append(entry.Affiliations, aff)
			}
		}
		p.Authors = append(p.Authors, entry)
	}
	if len(p.Authors) == 0 {
		return p, "no authors"
	}
	return p, ""
}

// name returns "ForeName LastName", the last name alone, or the collective
// name, whichever is available first.
func (au author) name() string {
	last := strings.TrimSpace(au.LastName)
	fore := strings.TrimSpace(au.ForeName)
	switch {
	case last != "" && fore != "":
		return fore + " " + last
	case last != "":
		return last
	default:
		return au.CollectiveName.Text()
	}
}

// flatten extracts character data from an XML fragment. Entities are
// resolved; unparseable fragments fall back to the raw text.
func flatten(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}

	dec := xml.NewDecoder(strings.NewReader("<x>" + fragment + "</x>"))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return collapse(fragment)
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return collapse(b.String())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
