package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"greenroom/internal/api"
)

func buildSessionStatusRows(stats map[string]int) [][]string {
	if len(stats) == 0 {
		return nil
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{formatStatusLabel(key), fmt.Sprintf("%d", stats[key])})
	}
	return rows
}

func buildSessionListRows(items []api.SessionItem) [][]string {
	if len(items) == 0 {
		return nil
	}
	sorted := api.SortSessionsNewestFirst(items)

	rows := make([][]string, 0, len(sorted))
	for _, item := range sorted {
		role := strings.TrimSpace(item.Role)
		if role == "" {
			role = "Unknown"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", item.ID),
			role,
			formatStatusLabel(item.InterviewType),
			formatStatusLabel(item.Status),
			fmt.Sprintf("%d/%d", item.QuestionsAsked, item.QuestionsTotal),
			formatDisplayTime(item.CreatedAt),
		})
	}
	return rows
}

func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	parts := strings.Split(status, "_")
	for i, part := range parts {
		lower := strings.ToLower(part)
		if lower == "" {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

func formatDisplayTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format("2006-01-02 15:04")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC().Format("2006-01-02 15:04")
	}
	return value
}
