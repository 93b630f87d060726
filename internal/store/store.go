// Package store manages the credential and metadata document at
// ~/.config/lin/config.json
//
// The document holds one entry per organization: its API token plus the
// synced team metadata (workflow states, labels, estimate scales) that
// name resolution runs against. Saves are atomic so a crash mid-write
// never leaves a torn file behind.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// ErrCorrupt marks a document that exists but cannot be parsed.
var ErrCorrupt = errors.New("config file is corrupt")

// WorkflowState is one state in a team's workflow, e.g. "In Progress".
type WorkflowState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // backlog, unstarted, started, completed, canceled
}

// Label is a team-scoped issue label.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamMeta is the synced metadata for one team, keyed by team key (e.g. "ENG").
type TeamMeta struct {
	ID        string             `json:"id"`
	Key       string             `json:"key"`
	Name      string             `json:"name"`
	States    []WorkflowState    `json:"states"`
	Labels    []Label            `json:"labels,omitempty"`
	Estimates map[string]float64 `json:"estimates,omitempty"` // lowercased scale name -> points
}

// OrgCache holds the synced metadata for one organization.
type OrgCache struct {
	Teams       map[string]TeamMeta `json:"teams"`
	Projects    map[string]string   `json:"projects"` // project name -> ID
	CurrentTeam string              `json:"current_team,omitempty"`
	LastSync    time.Time           `json:"last_sync"`
}

// Org is one organization entry: credentials plus metadata.
type Org struct {
	Token string   `json:"token"`
	Cache OrgCache `json:"cache"`
}

// Document is the root of the config file.
type Document struct {
	ActiveOrg string          `json:"active_org,omitempty"`
	Orgs      map[string]*Org `json:"orgs"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Orgs: make(map[string]*Org)}
}

// Store reads and writes the document at a fixed path.
type Store struct {
	path string
}

// New creates a store backed by an explicit path.
func New(path string) *Store {
	return &Store{path: path}
}

// Default creates a store at ~/.config/lin/config.json
func Default() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}
	return New(filepath.Join(home, ".config", "lin", "config.json")), nil
}

// Path returns the document's location on disk.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document.
// Returns an empty document if the file doesn't exist.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w at %s (%v): run \"lin auth add\" to re-authenticate", ErrCorrupt, s.path, err)
	}
	if doc.Orgs == nil {
		doc.Orgs = make(map[string]*Org)
	}

	return &doc, nil
}

// Save writes the document atomically. The file is created with owner-only
// permissions since it holds API tokens.
func (s *Store) Save(doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := os.Chmod(s.path, 0600); err != nil {
		return fmt.Errorf("restrict config permissions: %w", err)
	}

	return nil
}

// Org looks up an organization by name.
func (d *Document) Org(name string) (*Org, bool) {
	org, ok := d.Orgs[name]
	return org, ok
}

// Active returns the active organization, or false if none is set.
func (d *Document) Active() (*Org, bool) {
	if d.ActiveOrg == "" {
		return nil, false
	}
	return d.Org(d.ActiveOrg)
}

// AddOrg registers an organization. The first org added becomes active.
// Adding an existing org replaces its token and keeps its cached metadata.
func (d *Document) AddOrg(name, token string) {
	if d.Orgs == nil {
		d.Orgs = make(map[string]*Org)
	}
	if existing, ok := d.Orgs[name]; ok {
		existing.Token = token
	} else {
		d.Orgs[name] = &Org{
			Token: token,
			Cache: OrgCache{
				Teams:    make(map[string]TeamMeta),
				Projects: make(map[string]string),
			},
		}
	}
	if d.ActiveOrg == "" {
		d.ActiveOrg = name
	}
}

// RemoveOrg drops an organization. If it was active, the alphabetically
// first remaining org becomes active.
func (d *Document) RemoveOrg(name string) error {
	if _, ok := d.Orgs[name]; !ok {
		return fmt.Errorf("unknown organization: %s", name)
	}
	delete(d.Orgs, name)

	if d.ActiveOrg == name {
		d.ActiveOrg = ""
		names := d.OrgNames()
		if len(names) > 0 {
			d.ActiveOrg = names[0]
		}
	}
	return nil
}

// SwitchOrg changes the active organization.
func (d *Document) SwitchOrg(name string) error {
	if _, ok := d.Orgs[name]; !ok {
		return fmt.Errorf("unknown organization: %s", name)
	}
	d.ActiveOrg = name
	return nil
}

// OrgNames returns all organization names, sorted.
func (d *Document) OrgNames() []string {
	names := make([]string, 0, len(d.Orgs))
	for name := range d.Orgs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Team looks up a team by key, case-insensitively.
func (o *Org) Team(key string) (TeamMeta, bool) {
	if team, ok := o.Cache.Teams[key]; ok {
		return team, true
	}
	for k, team := range o.Cache.Teams {
		if strings.EqualFold(k, key) {
			return team, true
		}
	}
	return TeamMeta{}, false
}

// TeamID maps a team key to its remote ID.
func (o *Org) TeamID(key string) (string, bool) {
	team, ok := o.Team(key)
	if !ok {
		return "", false
	}
	return team.ID, true
}

// TeamKeys returns all cached team keys, sorted.
func (o *Org) TeamKeys() []string {
	keys := make([]string, 0, len(o.Cache.Teams))
	for key := range o.Cache.Teams {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// StateID maps a workflow state name to its remote ID within a team.
// Matching is case-insensitive. When a team lists two states whose names
// differ only in case, the first listed one wins.
func (o *Org) StateID(teamKey, stateName string) (string, bool) {
	team, ok := o.Team(teamKey)
	if !ok {
		return "", false
	}
	want := strings.ToLower(stateName)
	for _, state := range team.States {
		if strings.ToLower(state.Name) == want {
			return state.ID, true
		}
	}
	return "", false
}

// StateNames returns the distinct state names of a team, sorted.
func (o *Org) StateNames(teamKey string) []string {
	team, ok := o.Team(teamKey)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(team.States))
	for _, state := range team.States {
		names = append(names, state.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// EstimateValue maps an estimate scale name (e.g. "m") to its point value.
// Names are matched lowercased.
func (o *Org) EstimateValue(teamKey, name string) (float64, bool) {
	team, ok := o.Team(teamKey)
	if !ok {
		return 0, false
	}
	v, ok := team.Estimates[strings.ToLower(name)]
	return v, ok
}

// EstimateNames returns the estimate scale names of a team, sorted.
func (o *Org) EstimateNames(teamKey string) []string {
	team, ok := o.Team(teamKey)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(team.Estimates))
	for name := range team.Estimates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Project maps a project name to its remote ID, case-insensitively.
func (o *Org) Project(name string) (string, bool) {
	if id, ok := o.Cache.Projects[name]; ok {
		return id, true
	}
	for n, id := range o.Cache.Projects {
		if strings.EqualFold(n, name) {
			return id, true
		}
	}
	return "", false
}

// ProjectNames returns all cached project names, sorted.
func (o *Org) ProjectNames() []string {
	names := make([]string, 0, len(o.Cache.Projects))
	for name := range o.Cache.Projects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CacheTeam stores a team's metadata wholesale, replacing any previous
// entry for the same key. Partial merges are not supported: a team's
// states, labels and estimates always travel together.
func (o *Org) CacheTeam(team TeamMeta) {
	if o.Cache.Teams == nil {
		o.Cache.Teams = make(map[string]TeamMeta)
	}
	o.Cache.Teams[team.Key] = team
}

// ReplaceTeams swaps the entire metadata cache in one step and stamps
// the sync time. A current team that no longer exists is cleared.
func (o *Org) ReplaceTeams(teams []TeamMeta, projects map[string]string) {
	o.Cache.Teams = make(map[string]TeamMeta, len(teams))
	for _, team := range teams {
		o.Cache.Teams[team.Key] = team
	}
	o.Cache.Projects = projects
	if o.Cache.Projects == nil {
		o.Cache.Projects = make(map[string]string)
	}
	o.Cache.LastSync = time.Now().UTC()

	if o.Cache.CurrentTeam != "" {
		if _, ok := o.Team(o.Cache.CurrentTeam); !ok {
			o.Cache.CurrentTeam = ""
		}
	}
}

// CurrentTeam returns the org's default team key, if one is set.
func (o *Org) CurrentTeam() (string, bool) {
	return o.Cache.CurrentTeam, o.Cache.CurrentTeam != ""
}

// SetCurrentTeam sets the org's default team. The key must be cached.
func (o *Org) SetCurrentTeam(key string) error {
	team, ok := o.Team(key)
	if !ok {
		return fmt.Errorf("unknown team: %s (run \"lin sync\" first)", key)
	}
	o.Cache.CurrentTeam = team.Key
	return nil
}
