// pdfinspect dumps one or more objects from a PDF file, or, given the
// -fields or -radios flag, the engine's own view of the document's form
// data instead of its raw object graph.
//
//	usage: pdfinspect pdf-file path
//	       pdfinspect -fields pdf-file
//	       pdfinspect -radios pdf-file
//
// path is a slash-separated path of Dict keys or Array indexes leading to the
// object in question.  If the path starts with a /, it starts in the trailer
// dictionary.  If the path does not start with a /, it starts in the document
// catalog (i.e., it behaves as if the "current directory" is /Root).  The path
// may contain "*" wildcards replacing an entire component, in which case all
// Dict entries or Array elements at that component are listed.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/kilroy-fr/pdfforms/pdfform"
	"github.com/kilroy-fr/pdfforms/pdfstruct"
	"github.com/kilroy-fr/pdfforms/schema"
)

func main() {
	fieldsMode := flag.Bool("fields", false, "dump GetFields() instead of a raw object path")
	radiosMode := flag.Bool("radios", false, "dump the page and rect of the selected widget of every known radio group")
	flag.Parse()
	args := flag.Args()

	switch {
	case *fieldsMode:
		if len(args) != 1 {
			fmt.Fprintf(os.Stderr, "usage: pdfinspect -fields pdf-file\n")
			os.Exit(2)
		}
		dumpFields(args[0])
	case *radiosMode:
		if len(args) != 1 {
			fmt.Fprintf(os.Stderr, "usage: pdfinspect -radios pdf-file\n")
			os.Exit(2)
		}
		dumpRadios(args[0])
	default:
		if len(args) != 2 {
			fmt.Fprintf(os.Stderr, "usage: pdfinspect pdf-file path/to/object\n")
			os.Exit(2)
		}
		dumpPath(args[0], args[1])
	}
}

func openPDF(path string) *pdfstruct.PDF {
	fh, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	defer fh.Close()
	pdf, err := pdfstruct.Open(fh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", path, err)
		os.Exit(1)
	}
	return pdf
}

// dumpFields prints the engine's flattened field-name-to-value view of the
// document, as returned by pdfform.GetFields.
func dumpFields(path string) {
	pdf := openPDF(path)
	fields, err := pdfform.GetFields(pdf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	spew.Dump(fields)
}

// dumpRadios prints, for every radio group this template family knows about
// (schema.KnownRadioGroupOrder) that is present and has a selected widget,
// the page reference and rect of that widget. Groups that are absent or have
// no selection are left out of the report; On-state keys are not printed.
func dumpRadios(path string) {
	pdf := openPDF(path)
	type radioDump struct {
		Selected string
	}
	report := make(map[string]radioDump, len(schema.KnownRadioGroupOrder))
	for group := range schema.KnownRadioGroupOrder {
		sw, ok, err := pdfform.ResolveSelectedWidget(pdf, group)
		if err != nil || !ok {
			continue
		}
		report[group] = radioDump{
			Selected: fmt.Sprintf("page (#%d,%d) rect %v", sw.Page.Number, sw.Page.Generation, sw.Rect),
		}
	}
	spew.Dump(report)
}

func dumpPath(file, rawPath string) {
	pdf := openPDF(file)
	path := strings.Split(rawPath, "/")
	var root pdfstruct.Object
	var prefix string
	if path[0] == "" {
		path, root = path[1:], pdf.Info
	} else {
		root, prefix = pdf.Catalog, "/Root"
	}
	find(pdf, root, prefix, path)
}

func find(pdf *pdfstruct.PDF, root pdfstruct.Object, prefix string, path []string) {
	var err error

	if len(path) == 0 {
		dump(pdf, root, prefix, 0)
		return
	}
	if ref, ok := root.(pdfstruct.Reference); ok {
		if root, err = pdf.Get(ref); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s: (#%d,%d): %s\n", prefix, ref.Number, ref.Generation, err)
			os.Exit(1)
		}
	}
	if str, ok := root.(pdfstruct.Stream); ok {
		root = str.Dict
	}
	switch root := root.(type) {
	case pdfstruct.Array:
		if path[0] == "*" {
			for i := range root {
				find(pdf, root[i], fmt.Sprintf("%s/%d", prefix, i), path[1:])
			}
			break
		}
		var idx int
		if idx, err = strconv.Atoi(path[0]); err != nil || idx < 0 {
			fmt.Fprintf(os.Stderr, "ERROR: %s is an Array but %q is not a valid array index\n", prefix, path[0])
			return
		}
		if idx >= len(root) {
			fmt.Fprintf(os.Stderr, "ERROR: index %d is out of bounds for %s (length %d)\n", idx, prefix, len(root))
			return
		}
		find(pdf, root[idx], fmt.Sprintf("%s/%d", prefix, idx), path[1:])
	case pdfstruct.Dict:
		if path[0] == "*" {
			var keys = make([]string, 0, len(root))
			for key := range root {
				keys = append(keys, string(key))
			}
			sort.Strings(keys)
			for _, key := range keys {
				find(pdf, root[pdfstruct.Name(key)], fmt.Sprintf("%s/%s", prefix, key), path[1:])
			}
			break
		}
		if obj, ok := root[pdfstruct.Name(path[0])]; ok {
			find(pdf, obj, fmt.Sprintf("%s/%s", prefix, path[0]), path[1:])
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: key %q does not exist in %s\n", path[0], prefix)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: %s is a %T, not a Dict, Stream, or Array\n", prefix, root)
	}
}

func dump(pdf *pdfstruct.PDF, obj pdfstruct.Object, path string, indent int) {
	if ref, ok := obj.(pdfstruct.Reference); ok && indent == 0 {
		var err error
		if obj, err = pdf.Get(ref); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s: (#%d,%d): %s\n", path, ref.Number, ref.Generation, err)
			os.Exit(1)
		}
		fmt.Printf("%s = (#%d,%d) -> ", path, ref.Number, ref.Generation)
	} else {
		fmt.Printf("%s = ", path)
	}
	switch obj := obj.(type) {
	case nil:
		fmt.Println("null")
	case bool, int:
		fmt.Printf("%v\n", obj)
	case float64:
		fmt.Printf("%f\n", obj)
	case string:
		fmt.Printf("%q\n", obj)
	case []byte:
		fmt.Printf("<%s>\n", hex.EncodeToString(obj))
	case pdfstruct.Name:
		fmt.Printf("/%s\n", string(obj))
	case pdfstruct.Array:
		fmt.Println("Array[")
		for i := range obj {
			dump(pdf, obj[i], fmt.Sprintf("%*s[%d]", indent*4+4, "", i), indent+1)
		}
		fmt.Printf("%*s]\n", indent*4, "")
	case pdfstruct.Dict:
		fmt.Println("Dict<<")
		dumpDict(pdf, obj, indent)
		fmt.Printf("%*s>>\n", indent*4, "")
	case pdfstruct.Stream:
		fmt.Println("Stream<<")
		dumpDict(pdf, obj.Dict, indent)
		fmt.Printf("%*s>>\n", indent*4, "")
		obj.Decompress(0)
		spew.Dump(obj.Data)
	case pdfstruct.Reference:
		fmt.Printf("(#%d,%d)\n", obj.Number, obj.Generation)
	default:
		panic("unknown object type")
	}
}

func dumpDict(pdf *pdfstruct.PDF, d pdfstruct.Dict, indent int) {
	var keys = make([]pdfstruct.Name, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, key := range keys {
		dump(pdf, d[key], fmt.Sprintf("%*s/%s", indent*4+4, "", string(key)), indent+1)
	}
}
