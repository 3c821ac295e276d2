package instance

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andaru/ncgen/xmlutil"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Mode is the parameter-spec mode an instance document selects
type Mode int

const (
	// ModeConfig is a declarative edit-config <config> body
	ModeConfig Mode = iota
	// ModeQuery is a get or get-config <filter> body
	ModeQuery
	// ModeRPC is an <rpc> carrying a YANG rpc input
	ModeRPC
)

func (m Mode) String() string {
	switch m {
	case ModeConfig:
		return "config"
	case ModeQuery:
		return "query"
	case ModeRPC:
		return "rpc"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Operation discriminator values.
const (
	OpConfig      = "config"
	OpGet         = "get"
	OpGetConfig   = "get-config"
	OpInputAction = "input_action"
)

// OperationTypes lists every operation discriminator value.
var OperationTypes = []string{OpConfig, OpGet, OpGetConfig, OpInputAction}

// ErrNoEnvelope is returned for documents with no config, filter or rpc body.
var ErrNoEnvelope = errors.New("no <config>, <filter> or <rpc> envelope found")

type envelope struct {
	expr *xpath.Expr
	mode Mode
	op   string
	bad  bool
}

var envelopes = []envelope{
	{expr: xpath.MustCompile(`/*[local-name()='rpc']/*[local-name()='edit-config']/*[local-name()='config']`), mode: ModeConfig, op: OpConfig},
	{expr: xpath.MustCompile(`/*[local-name()='rpc']/*[local-name()='get']/*[local-name()='filter']`), mode: ModeQuery, op: OpGet},
	{expr: xpath.MustCompile(`/*[local-name()='rpc']/*[local-name()='get-config']/*[local-name()='filter']`), mode: ModeQuery, op: OpGetConfig},
	{expr: xpath.MustCompile(`/*[local-name()='rpc']/*[local-name()='edit-config' or local-name()='get' or local-name()='get-config']`), bad: true},
	{expr: xpath.MustCompile(`/*[local-name()='rpc']`), mode: ModeRPC, op: OpInputAction},
	{expr: xpath.MustCompile(`/*[local-name()='config']`), mode: ModeConfig, op: OpConfig},
	{expr: xpath.MustCompile(`/*[local-name()='filter']`), mode: ModeQuery, op: OpGet},
}

// Document is one parsed instance document.
type Document struct {
	Mode Mode
	// Operation is the operation discriminator: config, get, get-config
	// or input_action.
	Operation string
	// Root is the business root element (config, filter or rpc).
	Root *Node
	// Features are the namespace URIs of Root's element children.
	Features []string
	// Namespaces are all namespace URIs declared in the document.
	Namespaces []string

	table *Table
}

// Table returns the document's XMLNS info table.
func (d *Document) Table() *Table { return d.table }

// ParseFile parses the instance document at path.
func ParseFile(path string) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseBytes(data)
	return doc, errors.Wrapf(err, "%s", path)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	return data, errors.WithStack(err)
}

// Parse reads and parses a whole instance document from r.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return ParseBytes(data)
}

// ParseBytes parses an instance document held in memory. A document
// captured from a session may carry NETCONF framing; only its first
// message is parsed.
func ParseBytes(data []byte) (*Document, error) {
	data, err := unframe(data)
	if err != nil {
		return nil, errors.Wrap(err, "malformed instance document")
	}
	top, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "malformed instance document")
	}
	var env *envelope
	var body *xmlquery.Node
	for i := range envelopes {
		if body = xmlquery.QuerySelector(top, envelopes[i].expr); body != nil {
			env = &envelopes[i]
			break
		}
	}
	if env == nil {
		return nil, errors.WithStack(ErrNoEnvelope)
	}
	if env.bad {
		return nil, errors.Errorf("<%s> without its <config> or <filter> body", body.Data)
	}

	docElem, err := decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "malformed instance document")
	}
	root, scope := follow(docElem, localPath(body))
	if root == nil {
		return nil, errors.Errorf("envelope %q not found in element tree", strings.Join(localPath(body), "/"))
	}

	doc := &Document{
		Mode:      env.mode,
		Operation: env.op,
		Root:      root,
		Features:  features(body),
		table:     newTable(root, scope),
	}
	doc.Namespaces = declared(docElem)
	glog.V(1).Infof("instance %s mode=%s features=%v", env.op, env.mode, doc.Features)
	return doc, nil
}

// decode builds the element tree from raw tokens so prefixes survive.
func decode(data []byte) (*Node, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	var top *Node
	var stack []*Node
	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := newElement(t)
			if len(stack) > 0 {
				stack[len(stack)-1].add(n)
			} else if top == nil {
				top = n
			} else {
				return nil, errors.Errorf("second document element <%s>", n.QName())
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.Errorf("unexpected end element </%s>", xmlutil.QName(t.Name))
			}
			n := stack[len(stack)-1]
			if n.Name != t.Name.Local || n.Prefix != t.Name.Space {
				return nil, errors.Errorf("element <%s> closed by </%s>", n.QName(), xmlutil.QName(t.Name))
			}
			if n.Kind == Leaf {
				n.Text = strings.TrimSpace(n.Text)
			} else {
				n.Text = ""
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if top == nil || len(stack) > 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return top, nil
}

func localPath(n *xmlquery.Node) []string {
	var names []string
	for ; n != nil && n.Type == xmlquery.ElementNode; n = n.Parent {
		names = append([]string{n.Data}, names...)
	}
	return names
}

// follow descends from the document element along names and returns the
// node reached with the declarations in scope above it.
func follow(n *Node, names []string) (*Node, xmlutil.PrefixMap) {
	scope := xmlutil.PrefixMap{}
	if len(names) == 0 || n.Name != names[0] {
		return nil, nil
	}
	for _, name := range names[1:] {
		scope = mergeScope(scope, n.Decls)
		if n = n.Child(name); n == nil {
			return nil, nil
		}
		n = n.Occurrences()[0]
	}
	return n, scope
}

// mergeScope returns outer overridden by inner.
func mergeScope(outer, inner xmlutil.PrefixMap) xmlutil.PrefixMap {
	m := xmlutil.PrefixMap{}
	m.Merge(inner)
	m.Merge(outer)
	return m
}

func features(body *xmlquery.Node) []string {
	var out []string
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.NamespaceURI != "" {
			out = append(out, c.NamespaceURI)
		}
	}
	return lo.Uniq(out)
}

func declared(n *Node) []string {
	var out []string
	for _, a := range n.Decls.Attr() {
		out = append(out, a.Value)
	}
	n.Walk(func(_, _ string, c *Node) {
		for _, a := range c.Decls.Attr() {
			out = append(out, a.Value)
		}
	})
	return lo.Uniq(out)
}
