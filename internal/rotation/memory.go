// Package rotation keeps the durable record of who was assigned when, and
// the per-person per-role scores learned from feedback.
package rotation

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/orquestadev/orquesta/internal/logger"
)

const (
	// NeverAssignedWeeks is reported for people with no recorded prior
	// assignment so they rank first under any staleness-weighted score.
	NeverAssignedWeeks = 999

	// DefaultPreference is the neutral prior for roles never scored.
	DefaultPreference = 0.5

	dateLayout = "2006-01-02"
)

// FeedbackEntry is one free-form feedback event from a coordinator.
type FeedbackEntry struct {
	Timestamp    time.Time              `json:"timestamp"`
	WeekDate     string                 `json:"week_date"`
	Liked        *bool                  `json:"liked,omitempty"`
	Instructions string                 `json:"instructions,omitempty"`
	Comments     string                 `json:"comments,omitempty"`
	Adjustments  map[string]interface{} `json:"adjustments,omitempty"`
}

type snapshot struct {
	LastAssignment map[string]string             `json:"last_assignment"`
	RoleScores     map[string]map[string]float64 `json:"role_scores"`
	FeedbackCount  int                           `json:"feedback_count"`
	Feedback       []FeedbackEntry               `json:"feedback_history"`
}

// Memory is the file-backed rotation store. All access goes through a
// mutex; allocation and feedback requests are serialized here.
type Memory struct {
	mu   sync.Mutex
	path string
	log  *logger.Logger
	data snapshot
}

// Open loads rotation memory from path. A missing or empty file yields a
// fresh store. A corrupt file is backed up and replaced with a fresh store
// rather than aborting startup.
func Open(path string, log *logger.Logger) *Memory {
	m := &Memory{path: path, log: log}
	m.reset()

	info, err := os.Stat(path)
	if err != nil {
		m.log.Info("rotation memory: starting fresh", "path", path)
		return m
	}
	if info.Size() == 0 {
		m.log.Warn("rotation memory file is empty, starting fresh", "path", path)
		return m
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		m.log.Error("rotation memory unreadable, starting fresh", "path", path, "error", err)
		return m
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		backup := fmt.Sprintf("%s.corrupted.%s", path, time.Now().Format("20060102_150405"))
		if renameErr := os.Rename(path, backup); renameErr != nil {
			m.log.Error("could not back up corrupt memory file", "error", renameErr)
		} else {
			m.log.Warn("corrupt rotation memory backed up", "backup", backup)
		}
		return m
	}

	if snap.LastAssignment == nil {
		snap.LastAssignment = map[string]string{}
	}
	if snap.RoleScores == nil {
		snap.RoleScores = map[string]map[string]float64{}
	}
	m.data = snap
	m.log.Info("rotation memory loaded",
		"persons", len(snap.LastAssignment), "feedbacks", len(snap.Feedback))
	return m
}

func (m *Memory) reset() {
	m.data = snapshot{
		LastAssignment: map[string]string{},
		RoleScores:     map[string]map[string]float64{},
	}
}

// StalenessWeeks returns whole weeks since name's last assignment relative
// to asOf, at least 1. Missing or malformed records degrade to the
// never-assigned sentinel instead of failing the allocation.
func (m *Memory) StalenessWeeks(name string, asOf time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.data.LastAssignment[name]
	if !ok {
		return NeverAssignedWeeks
	}
	last, err := time.Parse(dateLayout, stored)
	if err != nil {
		m.log.Warn("malformed last-assignment date", "name", name, "value", stored)
		return NeverAssignedWeeks
	}
	weeks := int(asOf.Sub(last).Hours() / 24 / 7)
	if weeks < 1 {
		weeks = 1
	}
	return weeks
}

// RecordAssignment overwrites the last-assignment date unconditionally.
func (m *Memory) RecordAssignment(name string, date time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.LastAssignment[name] = date.Format(dateLayout)
}

// Preference returns the learned score for (name, role), or the neutral
// default when absent. The lookup never mutates storage, so enumerating
// known people stays independent of read history.
func (m *Memory) Preference(name, role string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	roles, ok := m.data.RoleScores[name]
	if !ok {
		return DefaultPreference
	}
	score, ok := roles[role]
	if !ok {
		return DefaultPreference
	}
	return score
}

func (m *Memory) SetPreference(name, role string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data.RoleScores[name] == nil {
		m.data.RoleScores[name] = map[string]float64{}
	}
	m.data.RoleScores[name][role] = score
}

// AppendFeedback stores a free-form feedback event and bumps the counter.
func (m *Memory) AppendFeedback(entry FeedbackEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Feedback = append(m.data.Feedback, entry)
	m.data.FeedbackCount++
}

// RecentFeedback returns up to limit entries, newest last.
func (m *Memory) RecentFeedback(limit int) []FeedbackEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.data.Feedback)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]FeedbackEntry, limit)
	copy(out, m.data.Feedback[n-limit:])
	return out
}

func (m *Memory) PersonsRemembered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.LastAssignment)
}

func (m *Memory) FeedbackCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.FeedbackCount
}

func (m *Memory) FeedbackHistorySize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.Feedback)
}

// Save writes the store to disk via temp-file-and-rename so a failed write
// never truncates the previous state.
func (m *Memory) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rotation memory: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write rotation memory: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("swap rotation memory: %w", err)
	}
	return nil
}
