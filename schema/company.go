package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMissingIdentity is returned when a profile cannot be identified.
var ErrMissingIdentity = errors.New("company profile is missing its identity")

var validate = validator.New(validator.WithRequiredStructEnabled())

// EngineeringSignals captures public engineering activity.
type EngineeringSignals struct {
	LastCommitDays *int     `json:"last_commit_days,omitempty"`
	Stars          *int     `json:"stars,omitempty"`
	IssueVelocity  *float64 `json:"issue_velocity,omitempty"`
}

// SocialSignals captures community chatter about the company.
type SocialSignals struct {
	Mentions       *int     `json:"mentions,omitempty"`
	SentimentScore *float64 `json:"sentiment_score,omitempty"`
}

// TrafficSignals captures estimated web traffic.
type TrafficSignals struct {
	Score *float64 `json:"score,omitempty"`
	Rank  *int     `json:"rank,omitempty"`
}

// HiringSignals captures the careers page state.
type HiringSignals struct {
	Status          HiringStatus `json:"status,omitempty"`
	SalesToEngRatio *float64     `json:"sales_to_eng_ratio,omitempty"`
}

// HistorySignals captures homepage churn over archived snapshots.
type HistorySignals struct {
	H1Volatility  float64 `json:"h1_volatility"`
	SnapshotCount int     `json:"snapshot_count"`
}

// HomepageSignals holds the resolved homepage text.
// HTML is an optional raw snapshot; ingest resolves the text fields from it.
type HomepageSignals struct {
	H1Text    string `json:"h1_text,omitempty"`
	TitleText string `json:"title_text,omitempty"`
	RawCopy   string `json:"raw_copy,omitempty"`
	HTML      string `json:"html,omitempty"`
}

// HasContent reports whether any headline text was resolved.
func (h *HomepageSignals) HasContent() bool {
	return h != nil && (strings.TrimSpace(h.H1Text) != "" || strings.TrimSpace(h.TitleText) != "")
}

// RawSignalBundle is the set of already-resolved observations for one company.
// Every sub-record is optional.
type RawSignalBundle struct {
	Engineering *EngineeringSignals `json:"engineering,omitempty"`
	Social      *SocialSignals      `json:"social,omitempty"`
	Traffic     *TrafficSignals     `json:"traffic,omitempty"`
	Hiring      *HiringSignals      `json:"hiring,omitempty"`
	History     *HistorySignals     `json:"history,omitempty"`
	Homepage    *HomepageSignals    `json:"homepage,omitempty"`
}

// CompanyProfile is the firmographic record for one company.
type CompanyProfile struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name" validate:"required"`
	Domain string `json:"domain,omitempty"`

	FundingAmount   *float64 `json:"funding_amount,omitempty"`
	Stage           string   `json:"stage,omitempty"`
	LastFundingDate string   `json:"last_funding_date,omitempty"`

	Headcount             *int `json:"headcount,omitempty"`
	EngineeringCount      *int `json:"engineering_count,omitempty"`
	SalesCount            *int `json:"sales_count,omitempty"`
	EngineeringCountPrior *int `json:"engineering_count_prior,omitempty"`
	SalesCountPrior       *int `json:"sales_count_prior,omitempty"`

	TechStack      []string `json:"tech_stack,omitempty"`
	TechStackPrior []string `json:"tech_stack_prior,omitempty"`
}

// Validate checks the only hard requirement on a profile: its identity.
func (p CompanyProfile) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %q", ErrMissingIdentity, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrMissingIdentity, err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is blank", ErrMissingIdentity)
	}
	return nil
}

// TotalHeadcount returns the direct headcount, or engineering plus sales when
// no direct figure is known. A missing team count adds zero. ok is false when
// no count at all is available.
func (p CompanyProfile) TotalHeadcount() (total int, ok bool) {
	if p.Headcount != nil {
		return *p.Headcount, true
	}
	if p.EngineeringCount == nil && p.SalesCount == nil {
		return 0, false
	}
	if p.EngineeringCount != nil {
		total += *p.EngineeringCount
	}
	if p.SalesCount != nil {
		total += *p.SalesCount
	}
	return total, true
}

// Company pairs a profile with its signal bundle.
type Company struct {
	Profile CompanyProfile  `json:"profile"`
	Signals RawSignalBundle `json:"signals"`
}
