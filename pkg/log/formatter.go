package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// TextFormatter renders entries as a single human-readable line:
// "TIMESTAMP LEVEL message key=value ...", with fields sorted by key (a
// component tag prints as component=name).
type TextFormatter struct{}

func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"))
	buf.WriteByte(' ')
	buf.WriteString(entry.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%v", k, entry.Fields[k])
	}
	if entry.Error != nil {
		fmt.Fprintf(&buf, " error=%v", entry.Error)
	}
	if entry.Caller != "" {
		fmt.Fprintf(&buf, " caller=%s", entry.Caller)
	}
	return buf.Bytes(), nil
}

// JSONFormatter renders entries as a single JSON object, the default
// formatter new loggers use unless overridden.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	doc := make(map[string]any, len(entry.Fields)+4)
	for k, v := range entry.Fields {
		doc[k] = v
	}
	doc["timestamp"] = entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")
	doc["level"] = entry.Level.String()
	doc["message"] = entry.Message
	if entry.Error != nil {
		doc["error"] = entry.Error.Error()
	}
	if entry.Caller != "" {
		doc["caller"] = entry.Caller
	}
	return json.Marshal(doc)
}
