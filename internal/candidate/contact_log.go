package candidate

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ContactLog holds the candidates that were already handed to outreach.
type ContactLog struct {
	Items []*Contact `json:"items"`
}

type Contact struct {
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Domain      string    `json:"domain"`
	Phone       string    `json:"phone"`
	ContactedAt time.Time `json:"contacted_at"`
}

// ToContacts converts the records into contact log entries stamped with now.
func (c *Candidates) ToContacts(now time.Time) *ContactLog {
	log := &ContactLog{}
	for _, r := range c.Items {
		log.Items = append(log.Items, &Contact{
			Email:       r.Email,
			Name:        r.Name,
			Domain:      r.Domain,
			Phone:       r.Phone,
			ContactedAt: now.UTC(),
		})
	}
	return log
}

// GetContactLogFromFile reads a contact log. A missing or empty file yields an empty log.
func GetContactLogFromFile(path string) (*ContactLog, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ContactLog{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ContactLog{}, nil
	}

	var log ContactLog
	if err := json.NewDecoder(file).Decode(&log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (l *ContactLog) Append(s *ContactLog) {
	l.Items = append(l.Items, s.Items...)
}

func (l *ContactLog) Emails() []string {
	emails := make([]string, 0, len(l.Items))
	for _, c := range l.Items {
		emails = append(emails, c.Email)
	}
	return emails
}

func (l *ContactLog) ToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}
