package cache

import (
	"strings"
	"time"
)

const defaultJobTitleTTL = time.Hour

// JobTitleCache keeps job titles looked up while rendering reminders.
type JobTitleCache interface {
	GetJobTitle(jobID string) (string, bool)
	SetJobTitle(jobID, title string)
}

type jobTitleCache struct {
	titles Cache[string, string]
	ttl    time.Duration
}

func NewJobTitleCache() JobTitleCache {
	return &jobTitleCache{
		titles: NewTTLCache[string, string](),
		ttl:    defaultJobTitleTTL,
	}
}

func (c *jobTitleCache) GetJobTitle(jobID string) (string, bool) {
	return c.titles.Get(cacheKey(jobID))
}

func (c *jobTitleCache) SetJobTitle(jobID, title string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	c.titles.Set(cacheKey(jobID), title, c.ttl)
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
