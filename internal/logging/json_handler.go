package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// jsonTimeLayout keeps millisecond precision so request and job lines sort.
const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// secretKeys are attribute keys whose values never reach a log line.
var secretKeys = map[string]bool{
	"api_key":       true,
	"api_token":     true,
	"authorization": true,
	"dsn":           true,
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: replaceJSONAttr,
	}
	return slog.NewJSONHandler(w, &opts).WithAttrs([]slog.Attr{slog.String("service", "roulette")})
}

func replaceJSONAttr(_ []string, attr slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(attr.Key)] && attr.Value.String() != "" {
		return slog.String(attr.Key, "***")
	}
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(jsonTimeLayout))
		}
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	case FieldTMDBID:
		if attr.Value.Kind() == slog.KindInt64 && attr.Value.Int64() <= 0 {
			return slog.Attr{}
		}
	}
	return attr
}
