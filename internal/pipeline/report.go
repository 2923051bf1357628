package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Status - итог обработки одного файла.
type Status string

const (
	// StatusOK - файл обработан.
	StatusOK Status = "ok"
	// StatusSkipped - файл пропущен (например, превью уже есть).
	StatusSkipped Status = "skipped"
	// StatusFailed - ошибка обработки.
	StatusFailed Status = "failed"
)

// FileResult содержит результат обработки одного файла.
type FileResult struct {
	// Name - имя файла.
	Name string `yaml:"name"`

	// Status - итог обработки.
	Status Status `yaml:"status"`

	// Message - строка для консоли.
	Message string `yaml:"message,omitempty"`

	// Detail - дополнительная строка (размеры).
	Detail string `yaml:"detail,omitempty"`

	// Err - ошибка (если есть).
	Err error `yaml:"-"`

	// Error - текст ошибки для отчёта.
	Error string `yaml:"error,omitempty"`

	// Width, Height - исходные размеры.
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`

	// NewWidth, NewHeight - размеры результата.
	NewWidth  int `yaml:"new_width,omitempty"`
	NewHeight int `yaml:"new_height,omitempty"`

	// BackedUp - создана ли резервная копия в этом запуске.
	BackedUp bool `yaml:"backed_up,omitempty"`

	// OldSize, NewSize - размеры файлов в байтах.
	OldSize int64 `yaml:"old_size,omitempty"`
	NewSize int64 `yaml:"new_size,omitempty"`

	// Duration - время обработки.
	Duration time.Duration `yaml:"duration,omitempty"`
}

// Failed создаёт результат с ошибкой.
func Failed(name string, err error) FileResult {
	return FileResult{
		Name:   name,
		Status: StatusFailed,
		Err:    err,
		Error:  err.Error(),
	}
}

// Report содержит итоги запуска.
type Report struct {
	// Tool - имя инструмента.
	Tool string `yaml:"tool"`

	// RunID - идентификатор запуска, тот же, что в журнале.
	RunID string `yaml:"run_id,omitempty"`

	// StartedAt - время начала.
	StartedAt time.Time `yaml:"started_at"`

	// Duration - длительность запуска.
	Duration time.Duration `yaml:"duration"`

	// Found - найдено файлов.
	Found int `yaml:"found"`

	// Processed - успешно обработано.
	Processed int `yaml:"processed"`

	// Resized - из них с изменением размеров.
	Resized int `yaml:"resized"`

	// Skipped - пропущено.
	Skipped int `yaml:"skipped"`

	// Failed - с ошибками.
	Failed int `yaml:"failed"`

	// BackedUp - создано резервных копий.
	BackedUp int `yaml:"backed_up"`

	// InputBytes - суммарный размер исходных файлов (обработанных).
	InputBytes int64 `yaml:"input_bytes"`

	// OutputBytes - суммарный размер результатов.
	OutputBytes int64 `yaml:"output_bytes"`

	// Interrupted - запуск остановлен до конца списка.
	Interrupted bool `yaml:"interrupted,omitempty"`

	// DryRun - запуск без записи файлов.
	DryRun bool `yaml:"dry_run,omitempty"`

	// Results - результаты по файлам в порядке обработки.
	Results []FileResult `yaml:"results"`
}

// NewReport создаёт пустой отчёт.
func NewReport(tool string, found int) *Report {
	return &Report{
		Tool:      tool,
		StartedAt: time.Now(),
		Found:     found,
		Results:   make([]FileResult, 0, found),
	}
}

// Add учитывает результат по файлу.
func (r *Report) Add(res FileResult) {
	if res.Err != nil && res.Error == "" {
		res.Error = res.Err.Error()
	}

	switch res.Status {
	case StatusOK:
		r.Processed++
		if res.NewWidth != res.Width || res.NewHeight != res.Height {
			r.Resized++
		}
		r.InputBytes += res.OldSize
		r.OutputBytes += res.NewSize
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	if res.BackedUp {
		r.BackedUp++
	}

	r.Results = append(r.Results, res)
}

// Finish фиксирует длительность запуска.
func (r *Report) Finish() {
	r.Duration = time.Since(r.StartedAt)
}

// Attempted возвращает количество файлов, которые пытались обработать.
func (r *Report) Attempted() int {
	return r.Processed + r.Failed
}

// SavedBytes возвращает количество сэкономленных байт.
func (r *Report) SavedBytes() int64 {
	return r.InputBytes - r.OutputBytes
}

// Errors возвращает результаты с ошибками.
func (r *Report) Errors() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Elapsed возвращает длительность, округлённую для вывода.
func (r *Report) Elapsed() time.Duration {
	return elapsed(r.Duration)
}

// WriteYAML сохраняет отчёт в YAML-файл.
func (r *Report) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать отчёт: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию отчёта: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("не удалось записать отчёт %s: %w", path, err)
	}
	return nil
}

// ReadYAML загружает отчёт из YAML-файла.
func ReadYAML(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать отчёт %s: %w", path, err)
	}

	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML в %s: %w", path, err)
	}
	return &r, nil
}

// byteUnits - единицы для FormatBytes, по степеням 1024.
var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatBytes форматирует байты в человекочитаемый вид ("1.5 MB").
// Отрицательные значения (файл вырос) выводятся со знаком минус.
func FormatBytes(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}

	v, i := float64(n), 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%s%d B", sign, n)
	}
	return fmt.Sprintf("%s%.1f %s", sign, v, byteUnits[i])
}
