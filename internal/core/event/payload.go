package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedPayload is returned when the body is not a JSON object.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// Inbound is one decoded webhook delivery. It is never persisted.
type Inbound struct {
	RawType      string
	Type         Type
	RawTimestamp string
	Timestamp    *time.Time

	// Subject is the best-effort subject profile reference, unnormalized.
	Subject          string
	FullName         string
	FirstName        string
	LastName         string
	PublicIdentifier string
	MessageText      string

	// Account is set only for the account-status shape.
	Account *AccountStatus
}

// AccountStatus is the payload of an account-status-changed delivery.
type AccountStatus struct {
	AccountID   string
	AccountType string
	Message     string
}

// Candidate field paths, in preference order. Paths are relative to the payload root.
var (
	subjectPaths = [][]string{
		{"data", "user_profile_url"},
		{"data", "recipient", "linkedin_profile_url"},
		{"data", "recipient", "profile_url"},
		{"data", "recipient", "linkedin_url"},
		{"data", "linkedin_url"},
		{"data", "profile_url"},
		{"linkedin_url"},
		{"profile_url"},
	}
	fullNamePaths = [][]string{
		{"data", "user_full_name"},
		{"data", "recipient", "full_name"},
		{"data", "recipient", "name"},
		{"data", "full_name"},
	}
	firstNamePaths = [][]string{
		{"data", "user_first_name"},
		{"data", "recipient", "first_name"},
		{"data", "first_name"},
	}
	lastNamePaths = [][]string{
		{"data", "user_last_name"},
		{"data", "recipient", "last_name"},
		{"data", "last_name"},
	}
	publicIdentifierPaths = [][]string{
		{"data", "user_public_identifier"},
		{"data", "recipient", "public_identifier"},
		{"data", "public_identifier"},
	}
	eventNamePaths = [][]string{
		{"event"},
		{"type"},
		{"object"},
	}
	timestampPaths = [][]string{
		{"timestamp"},
		{"data", "timestamp"},
	}
	messagePaths = [][]string{
		{"data", "message"},
		{"data", "text"},
	}
)

// accountStatusKeys are the top-level wrapper fields that mark the account-status shape.
var accountStatusKeys = []string{"AccountStatus", "account_status"}

// Parse decodes a webhook body. The account-status shape takes priority over the
// generic event shape.
func Parse(body []byte) (*Inbound, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}

	for _, key := range accountStatusKeys {
		wrapper, ok := root[key].(map[string]any)
		if !ok {
			continue
		}
		return &Inbound{
			RawType: key,
			Type:    TypeAccountStatus,
			Account: &AccountStatus{
				AccountID:   stringAt(wrapper, "account_id"),
				AccountType: stringAt(wrapper, "account_type"),
				Message:     stringAt(wrapper, "message"),
			},
		}, nil
	}

	in := &Inbound{
		RawType:          firstString(root, eventNamePaths),
		Subject:          firstString(root, subjectPaths),
		FullName:         firstString(root, fullNamePaths),
		FirstName:        firstString(root, firstNamePaths),
		LastName:         firstString(root, lastNamePaths),
		PublicIdentifier: firstString(root, publicIdentifierPaths),
		MessageText:      firstString(root, messagePaths),
	}
	in.Type = Classify(in.RawType)
	in.RawTimestamp, in.Timestamp = parseTimestamp(root)

	return in, nil
}

// Fingerprint derives the dedup key {timestamp-or-now}_{subject-or-"unknown"}.
func Fingerprint(rawTimestamp, subject string, now time.Time) string {
	ts := strings.TrimSpace(rawTimestamp)
	if ts == "" {
		ts = now.UTC().Format(time.RFC3339Nano)
	}
	subj := strings.TrimSpace(subject)
	if subj == "" {
		subj = "unknown"
	}
	return ts + "_" + subj
}

func parseTimestamp(root map[string]any) (string, *time.Time) {
	for _, path := range timestampPaths {
		v, ok := valueAt(root, path...)
		if !ok || v == nil {
			continue
		}
		switch typed := v.(type) {
		case string:
			raw := strings.TrimSpace(typed)
			if raw == "" {
				continue
			}
			return raw, parseTimeString(raw)
		case json.Number:
			raw := typed.String()
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return raw, nil
			}
			t := unixToTime(n)
			return raw, &t
		}
	}
	return "", nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimeString(raw string) *time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		t := unixToTime(n)
		return &t
	}
	return nil
}

// unixToTime accepts seconds or milliseconds since the epoch.
func unixToTime(n float64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(int64(n)).UTC()
	}
	return time.Unix(int64(n), 0).UTC()
}

func firstString(root map[string]any, paths [][]string) string {
	for _, path := range paths {
		if s := stringAt(root, path...); s != "" {
			return s
		}
	}
	return ""
}

func stringAt(root map[string]any, path ...string) string {
	v, ok := valueAt(root, path...)
	if !ok {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	default:
		return ""
	}
}

func valueAt(root map[string]any, path ...string) (any, bool) {
	var cur any = root
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
