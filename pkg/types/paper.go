// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the get-papers-list pipeline:
// bibliographic records as they leave the fetch stage, per-affiliation
// classification verdicts, and the report rows handed to the writers.
package types

// Author is one entry of a paper's author list.
type Author struct {
	// Name is the display name ("ForeName LastName", or a collective name).
	Name string `json:"name" yaml:"name"`

	// Affiliations holds the raw affiliation strings in source order.
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`
}

// Paper is a bibliographic record fetched from PubMed. It is built once per
// record and not modified after evaluation.
type Paper struct {
	// ID is the PubMed identifier (PMID).
	ID string `json:"id" yaml:"id"`

	// Title is the article title with inner markup flattened.
	Title string `json:"title" yaml:"title"`

	// PublicationDate is an ISO-like date whose precision follows the source:
	// "2024", "2024-03" or "2024-03-15".
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// Authors lists the paper authors in source order.
	Authors []Author `json:"authors" yaml:"authors"`
}

// ClassificationResult is the verdict for a single affiliation string.
// CompanyName is only set when NonAcademic is true. Email is extracted
// independently of the verdict.
type ClassificationResult struct {
	NonAcademic bool   `json:"non_academic" yaml:"non_academic"`
	CompanyName string `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
}

// ReportRow is the aggregated result for a qualifying paper.
type ReportRow struct {
	PubmedID        string `json:"pubmed_id" yaml:"pubmed_id"`
	Title           string `json:"title" yaml:"title"`
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// NonAcademicAuthors holds distinct author names in first-seen order.
	NonAcademicAuthors []string `json:"non_academic_authors" yaml:"non_academic_authors"`

	// CompanyAffiliations holds company names deduplicated case-insensitively,
	// kept in first-seen order and casing.
	CompanyAffiliations []string `json:"company_affiliations" yaml:"company_affiliations"`

	// CorrespondingEmail is the first email found across all affiliations.
	CorrespondingEmail string `json:"corresponding_email,omitempty" yaml:"corresponding_email,omitempty"`
}
