package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

const upTemplate = `-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

-- Write your UP migration SQL here

`

const downTemplate = `-- Migration: {{.Name}} (Rollback)
-- Created: {{.Timestamp}}
-- Description: Rollback for {{.Description}}

-- Write your DOWN migration SQL here

`

// MigrationFile represents a generated up/down file pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes a new empty up/down migration pair into migrationsDir
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	// Timestamp version keeps files sorted by creation order
	now := time.Now()
	mf := &MigrationFile{
		Version:     now.Format("20060102150405"),
		Name:        name,
		Description: description,
		Timestamp:   now.Format(time.RFC3339),
	}

	baseName := fmt.Sprintf("%s_%s", mf.Version, sanitizeName(name))
	mf.UpPath = filepath.Join(migrationsDir, baseName+".up.sql")
	mf.DownPath = filepath.Join(migrationsDir, baseName+".down.sql")

	if err := renderMigrationFile(mf.UpPath, upTemplate, mf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := renderMigrationFile(mf.DownPath, downTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}

	return mf, nil
}

func renderMigrationFile(path, tmplContent string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// sanitizeName converts a migration name to a safe lowercase file name
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			result = append(result, c)
		case c >= 'A' && c <= 'Z':
			result = append(result, c+'a'-'A')
		case c >= '0' && c <= '9':
			result = append(result, c)
		case c == ' ' || c == '-' || c == '_':
			if len(result) > 0 && result[len(result)-1] != '_' {
				result = append(result, '_')
			}
		}
	}
	if len(result) > 0 && result[len(result)-1] == '_' {
		result = result[:len(result)-1]
	}
	return string(result)
}

// ListMigrations returns the base names of all migration pairs in a directory
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0)
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		baseName := strings.TrimSuffix(name, ".up.sql")
		if !seen[baseName] {
			seen[baseName] = true
			migrations = append(migrations, baseName)
		}
	}

	return migrations, nil
}
