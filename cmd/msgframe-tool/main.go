// Command msgframe-tool assembles and parses schema-driven binary messages
// from the command line.
//
//	msgframe-tool assemble -schema schema.json -in values.json
//	msgframe-tool parse -schema schema.json -in message.hex
//
// Without -schema the bundled interchange schema is used. Configuration may
// also come from a msgframe-tool.yaml file alongside the binary or from
// MSGFRAME_* environment variables.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fepkit/msgframe"
	"github.com/fepkit/msgframe/observability"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "msgframe-tool:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: msgframe-tool <assemble|parse> [flags]")
	}
	cmd, args := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	schemaPath := fs.String("schema", "", "schema document (json/yaml/toml); bundled interchange schema when empty")
	inPath := fs.String("in", "-", "input file, - for stdin")
	verbose := fs.Bool("v", false, "debug logging")
	showSensitive := fs.Bool("show-sensitive", false, "print sensitive field values unmasked")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := loadConfig()
	if *verbose {
		cfg.Level = "debug"
	}
	logger, err := observability.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	schema, err := resolveSchema(*schemaPath)
	if err != nil {
		return err
	}
	input, err := readInput(*inPath)
	if err != nil {
		return err
	}

	registry := msgframe.NewRegistry()
	switch cmd {
	case "assemble":
		return assemble(schema, registry, input, logger)
	case "parse":
		return parse(schema, registry, input, *showSensitive, logger)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func loadConfig() observability.LogConfig {
	v := viper.New()
	v.SetConfigName("msgframe-tool")
	v.AddConfigPath(".")
	v.SetEnvPrefix("MSGFRAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	cfg := observability.LogConfig{Level: "info", Format: "console"}
	_ = v.UnmarshalKey("log", &cfg)
	return cfg
}

func resolveSchema(path string) (*msgframe.MessageSchema, error) {
	if path == "" {
		return msgframe.StandardInterchangeSchema(), nil
	}
	return msgframe.LoadSchemaFile(path)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// valuesDocument is the assemble input: field values keyed by decimal field
// id, nested values keyed by parent then child id.
type valuesDocument struct {
	Header map[string]interface{}            `json:"header"`
	Fields map[string]interface{}            `json:"fields"`
	Nested map[string]map[string]interface{} `json:"nested"`
}

func assemble(schema *msgframe.MessageSchema, registry *msgframe.Registry, input []byte, logger *zap.Logger) error {
	var doc valuesDocument
	if err := json.Unmarshal(input, &doc); err != nil {
		return fmt.Errorf("decode values: %w", err)
	}

	msg := msgframe.NewMessage(schema)
	for id, v := range doc.Header {
		fid, err := strconv.Atoi(id)
		if err != nil {
			return fmt.Errorf("header field id %q: %w", id, err)
		}
		msg.SetField(fid, normalize(v))
	}
	for id, v := range doc.Fields {
		fid, err := strconv.Atoi(id)
		if err != nil {
			return fmt.Errorf("field id %q: %w", id, err)
		}
		msg.SetField(fid, normalize(v))
	}
	for pid, children := range doc.Nested {
		parent, err := strconv.Atoi(pid)
		if err != nil {
			return fmt.Errorf("field id %q: %w", pid, err)
		}
		for cid, v := range children {
			child, err := strconv.Atoi(cid)
			if err != nil {
				return fmt.Errorf("field %s child id %q: %w", pid, cid, err)
			}
			msg.SetNestedField(parent, child, normalize(v))
		}
	}

	data, err := msgframe.NewAssembler(registry, msgframe.WithAssemblerLogger(logger)).Assemble(msg)
	if err != nil {
		return err
	}
	fmt.Println(strings.ToUpper(hex.EncodeToString(data)))
	return nil
}

// normalize maps JSON scalar types onto the value types field codecs accept.
func normalize(v interface{}) interface{} {
	if f, ok := v.(float64); ok {
		return strconv.FormatInt(int64(f), 10)
	}
	return v
}

func parse(schema *msgframe.MessageSchema, registry *msgframe.Registry, input []byte, showSensitive bool, logger *zap.Logger) error {
	text := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, string(input))
	data, err := hex.DecodeString(text)
	if err != nil {
		return fmt.Errorf("decode hex input: %w", err)
	}

	msg, err := msgframe.NewParser(registry, msgframe.WithParserLogger(logger)).Parse(data, schema)
	if err != nil {
		return err
	}

	for _, id := range msg.FieldIDs() {
		value := msg.GetString(id)
		f := fieldByID(schema, id)
		name := ""
		if f != nil {
			name = f.Name
			if f.Sensitive && !showSensitive {
				value = mask(value)
			}
		}
		fmt.Printf("%4d  %-24s %s\n", id, name, value)
	}
	if trailing := msg.TrailingBytes(); len(trailing) > 0 {
		fmt.Printf("      %-24s %X\n", "(trailing)", trailing)
	}
	return nil
}

func fieldByID(schema *msgframe.MessageSchema, id int) *msgframe.FieldSchema {
	if schema.Header != nil {
		for i := range schema.Header.Fields {
			if schema.Header.Fields[i].ID == id {
				return &schema.Header.Fields[i]
			}
		}
	}
	if f := schema.FieldByID(id); f != nil {
		return f
	}
	if schema.Trailer != nil {
		for i := range schema.Trailer.Fields {
			if schema.Trailer.Fields[i].ID == id {
				return &schema.Trailer.Fields[i]
			}
		}
	}
	return nil
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
