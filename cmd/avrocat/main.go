package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/codec"
	"github.com/avroforge/avro/generic"
	"github.com/avroforge/avro/ocf"
	"github.com/avroforge/avro/schema"
)

func main() {
	var (
		readerSchema = flag.String("schema", "", "Path to a reader schema to resolve against")
		showMeta     = flag.Bool("meta", false, "Print container metadata and exit")
		maxRecords   = flag.Int("n", 0, "Stop after this many records (0 = all)")
		verbose      = flag.Bool("v", false, "Verbose container logging")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: avrocat [flags] <file.avro>")
		fmt.Fprintln(os.Stderr, "       avrocat -meta <file.avro>")
		fmt.Fprintln(os.Stderr, "       avrocat -i <file.avro>  (interactive mode)")
		flag.PrintDefaults()
		os.Exit(1)
	}
	file := flag.Arg(0)

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			ocf.SetLogger(logger)
		}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(file, *readerSchema); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(file, *readerSchema, *showMeta, *maxRecords); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file, readerSchemaPath string, showMeta bool, maxRecords int) error {
	r, datum, closeFn, err := openContainer(file, readerSchemaPath)
	if err != nil {
		return err
	}
	defer closeFn()

	if showMeta {
		fmt.Printf("schema: %s\n", schema.Canonical(r.Schema()))
		for k, v := range r.Metadata() {
			if k != "avro.schema" {
				fmt.Printf("%s: %q\n", k, v)
			}
		}
		return nil
	}

	render, err := newRenderer(datum)
	if err != nil {
		return err
	}
	count := 0
	for {
		d, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line, err := render(d)
		if err != nil {
			return err
		}
		fmt.Println(line)
		count++
		if maxRecords > 0 && count >= maxRecords {
			return nil
		}
	}
}

// openContainer opens the file and returns the reader plus the schema
// datums come back under: the reader schema when resolving, the file's
// writer schema otherwise.
func openContainer(file, readerSchemaPath string) (*ocf.Reader, *schema.Node, func(), error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, nil, err
	}
	var opts []ocf.ReaderOption
	var readerSchema *schema.Node
	if readerSchemaPath != "" {
		src, err := os.ReadFile(readerSchemaPath)
		if err != nil {
			f.Close()
			return nil, nil, nil, err
		}
		readerSchema, err = schema.ParseBytes(src)
		if err != nil {
			f.Close()
			return nil, nil, nil, err
		}
		opts = append(opts, ocf.WithReaderSchema(readerSchema))
	}
	r, err := ocf.NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, nil, nil, err
	}
	datum := r.Schema()
	if readerSchema != nil {
		datum = readerSchema
	}
	return r, datum, func() { f.Close() }, nil
}

// newRenderer returns a function turning datums into their Avro JSON
// encoding.
func newRenderer(s *schema.Node) (func(*generic.Datum) (string, error), error) {
	enc, err := codec.NewJSONEncoder(s)
	if err != nil {
		return nil, err
	}
	return func(d *generic.Datum) (string, error) {
		out := avro.NewMemoryOutput(0)
		enc.Init(out)
		if err := generic.Write(enc, d); err != nil {
			return "", err
		}
		if err := enc.Flush(); err != nil {
			return "", err
		}
		return string(avro.Snapshot(out)), nil
	}, nil
}
