package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cqlc/internal/cql"
	"github.com/roach88/cqlc/internal/queryast"
)

// Error codes for description loading.
const (
	ErrCodeNotFound       = "FILE_NOT_FOUND"
	ErrCodeParseFailed    = "PARSE_FAILED"
	ErrCodeBadDescription = "BAD_DESCRIPTION"
	ErrCodeWriteFailed    = "WRITE_FAILED"
	ErrCodeGeneric        = "ERROR"
)

// LoadError represents an error that occurred while loading a query
// description file.
type LoadError struct {
	Code    string
	Message string
	Path    string // position inside the description, e.g. "where.and[1]"
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Operations accepted by the "op" field. The operation is always chosen
// explicitly by the description, never inferred from its shape.
const (
	OpSelect    = "select"
	OpUpdateAll = "update_all"
	OpDeleteAll = "delete_all"
	OpInsert    = "insert"
	OpUpdate    = "update"
	OpDelete    = "delete"
)

// Description is a decoded query description: the normalized AST plus the
// operation selector and options, ready to hand to the compiler.
//
// Query is populated for the query-shaped operations (select, update_all,
// delete_all); InsertFields for insert; Sets and Filters for the
// single-row update and delete forms.
type Description struct {
	Op           string
	Query        *queryast.Query
	Source       queryast.Source
	InsertFields []cql.InsertField
	Sets         []cql.Field
	Filters      []cql.Field
	Options      cql.Options
}

// rawDescription is the YAML shape of a description file.
//
// Expression trees are encoded as single-key tagged maps:
//
//	{col: name}                  column reference
//	{lit: 21}                    inline literal (scalar or {bigint: n})
//	{param: widgets}             bound parameter
//	{eq: [<expr>, <expr>]}       comparison (also ne, lt, lte, gt, gte)
//	{and: [<expr>, ...]}         conjunction
//	{in: {target: <expr>, elems: [<expr>, ...]}}
//	{count: <expr>}              aggregate
//	{cast: {arg: <expr>, as: text}}
//	{frag: {text: "lower(?)", args: [<expr>, ...]}}
//	{call: {fn: now, args: []}}
//	{or: [...]}, {not: <expr>}, {is_null: <expr>}   representable, rejected
type rawDescription struct {
	Op          string           `yaml:"op"`
	Source      rawSource        `yaml:"source"`
	Fields      []any            `yaml:"fields,omitempty"`
	Where       any              `yaml:"where,omitempty"`
	OrderBy     []rawOrder       `yaml:"order_by,omitempty"`
	GroupBy     []any            `yaml:"group_by,omitempty"`
	Limit       *int64           `yaml:"limit,omitempty"`
	Hint        string           `yaml:"hint,omitempty"`
	Assignments []rawAssignment  `yaml:"assignments,omitempty"`
	Values      []rawInsertField `yaml:"values,omitempty"`
	Set         []rawField       `yaml:"set,omitempty"`
	Filters     []rawField       `yaml:"filters,omitempty"`
	Options     map[string]any   `yaml:"options,omitempty"`
}

type rawSource struct {
	Keyspace string `yaml:"keyspace,omitempty"`
	Table    string `yaml:"table"`
}

type rawOrder struct {
	Col string `yaml:"col"`
	Dir string `yaml:"dir,omitempty"` // "desc" or empty/"asc"
}

type rawAssignment struct {
	Column string `yaml:"column"`
	Set    any    `yaml:"set,omitempty"`
	Inc    any    `yaml:"inc,omitempty"`
}

type rawInsertField struct {
	Column string `yaml:"column"`
	Value  any    `yaml:"value,omitempty"`
	Auto   string `yaml:"auto,omitempty"` // "timeuuid" | "uuid"
}

type rawField struct {
	Column string `yaml:"column"`
	Value  any    `yaml:"value"`
}

// LoadDescription reads and decodes a query description file.
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("description file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading description file: %v", err)}
	}

	var raw rawDescription
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}

	return decodeDescription(&raw)
}

func decodeDescription(raw *rawDescription) (*Description, error) {
	desc := &Description{
		Op:     raw.Op,
		Source: queryast.Source{Keyspace: raw.Source.Keyspace, Table: raw.Source.Table},
	}
	if raw.Options != nil {
		desc.Options = cql.Options(raw.Options)
	}

	switch raw.Op {
	case OpSelect, OpUpdateAll, OpDeleteAll:
		q, err := decodeQuery(raw)
		if err != nil {
			return nil, err
		}
		desc.Query = q
		return desc, nil

	case OpInsert:
		fields, err := decodeInsertFields(raw.Values)
		if err != nil {
			return nil, err
		}
		desc.InsertFields = fields
		return desc, nil

	case OpUpdate, OpDelete:
		sets, err := decodeFields(raw.Set, "set")
		if err != nil {
			return nil, err
		}
		filters, err := decodeFields(raw.Filters, "filters")
		if err != nil {
			return nil, err
		}
		desc.Sets = sets
		desc.Filters = filters
		return desc, nil

	case "":
		return nil, &LoadError{Code: ErrCodeBadDescription, Message: "missing op field"}
	default:
		return nil, &LoadError{
			Code:    ErrCodeBadDescription,
			Message: fmt.Sprintf("unknown op %q (want select, update_all, delete_all, insert, update, or delete)", raw.Op),
			Path:    "op",
		}
	}
}

func decodeQuery(raw *rawDescription) (*queryast.Query, error) {
	q := &queryast.Query{
		Source:   queryast.Source{Keyspace: raw.Source.Keyspace, Table: raw.Source.Table},
		Limit:    raw.Limit,
		LockHint: raw.Hint,
	}

	for i, f := range raw.Fields {
		expr, err := decodeExpr(f, fmt.Sprintf("fields[%d]", i))
		if err != nil {
			return nil, err
		}
		q.Fields = append(q.Fields, expr)
	}

	if raw.Where != nil {
		filter, err := decodeExpr(raw.Where, "where")
		if err != nil {
			return nil, err
		}
		q.Filter = filter
	}

	for _, o := range raw.OrderBy {
		dir := queryast.Asc
		if o.Dir == "desc" {
			dir = queryast.Desc
		}
		q.OrderBy = append(q.OrderBy, queryast.OrderItem{Column: o.Col, Dir: dir})
	}

	for i, g := range raw.GroupBy {
		expr, err := decodeExpr(g, fmt.Sprintf("group_by[%d]", i))
		if err != nil {
			return nil, err
		}
		q.GroupBy = append(q.GroupBy, expr)
	}

	for i, a := range raw.Assignments {
		asg, err := decodeAssignment(a, fmt.Sprintf("assignments[%d]", i))
		if err != nil {
			return nil, err
		}
		q.Assignments = append(q.Assignments, asg)
	}

	return q, nil
}

func decodeAssignment(raw rawAssignment, path string) (queryast.Assignment, error) {
	switch {
	case raw.Set != nil && raw.Inc != nil:
		return nil, &LoadError{Code: ErrCodeBadDescription, Message: "assignment has both set and inc", Path: path}
	case raw.Set != nil:
		value, err := decodeExpr(raw.Set, path+".set")
		if err != nil {
			return nil, err
		}
		return queryast.Set{Column: raw.Column, Value: value}, nil
	case raw.Inc != nil:
		delta, err := decodeExpr(raw.Inc, path+".inc")
		if err != nil {
			return nil, err
		}
		return queryast.Inc{Column: raw.Column, Delta: delta}, nil
	default:
		return nil, &LoadError{Code: ErrCodeBadDescription, Message: "assignment needs set or inc", Path: path}
	}
}

func decodeInsertFields(raw []rawInsertField) ([]cql.InsertField, error) {
	fields := make([]cql.InsertField, 0, len(raw))
	for i, f := range raw {
		path := fmt.Sprintf("values[%d]", i)
		switch f.Auto {
		case "timeuuid":
			fields = append(fields, cql.InsertField{Column: f.Column, Value: queryast.AutoGenerate{}, Kind: cql.KindTimeUUID})
		case "uuid":
			fields = append(fields, cql.InsertField{Column: f.Column, Value: queryast.AutoGenerate{}, Kind: cql.KindUUID})
		case "":
			value, err := decodeValue(f.Value, path+".value")
			if err != nil {
				return nil, err
			}
			fields = append(fields, cql.InsertField{Column: f.Column, Value: value})
		default:
			return nil, &LoadError{
				Code:    ErrCodeBadDescription,
				Message: fmt.Sprintf("unknown auto kind %q (want timeuuid or uuid)", f.Auto),
				Path:    path,
			}
		}
	}
	return fields, nil
}

func decodeFields(raw []rawField, path string) ([]cql.Field, error) {
	fields := make([]cql.Field, 0, len(raw))
	for i, f := range raw {
		value, err := decodeValue(f.Value, fmt.Sprintf("%s[%d].value", path, i))
		if err != nil {
			return nil, err
		}
		fields = append(fields, cql.Field{Column: f.Column, Value: value})
	}
	return fields, nil
}

// decodeExpr decodes one expression node from its single-key tagged map.
func decodeExpr(raw any, path string) (queryast.Expr, error) {
	node, ok := raw.(map[string]any)
	if !ok || len(node) != 1 {
		return nil, &LoadError{
			Code:    ErrCodeBadDescription,
			Message: fmt.Sprintf("expression must be a single-key map, got %T", raw),
			Path:    path,
		}
	}

	var tag string
	var body any
	for k, v := range node {
		tag, body = k, v
	}

	switch tag {
	case "col":
		name, ok := body.(string)
		if !ok {
			return nil, badExpr(path, "col needs a string name")
		}
		return queryast.Column{Name: name}, nil

	case "lit":
		value, err := decodeValue(body, path+".lit")
		if err != nil {
			return nil, err
		}
		return queryast.Literal{Value: value}, nil

	case "param":
		value, err := decodeValue(body, path+".param")
		if err != nil {
			return nil, err
		}
		return queryast.Param{Value: value}, nil

	case "eq", "ne", "lt", "lte", "gt", "gte":
		return decodeCompare(tag, body, path)

	case "and":
		items, ok := body.([]any)
		if !ok {
			return nil, badExpr(path, "and needs a list of expressions")
		}
		exprs := make([]queryast.Expr, 0, len(items))
		for i, item := range items {
			sub, err := decodeExpr(item, fmt.Sprintf("%s.and[%d]", path, i))
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, sub)
		}
		return queryast.And{Exprs: exprs}, nil

	case "in":
		m, ok := body.(map[string]any)
		if !ok {
			return nil, badExpr(path, "in needs {target, elems}")
		}
		target, err := decodeExpr(m["target"], path+".in.target")
		if err != nil {
			return nil, err
		}
		in := queryast.In{Target: target}
		if elems, ok := m["elems"].([]any); ok {
			for i, item := range elems {
				sub, err := decodeExpr(item, fmt.Sprintf("%s.in.elems[%d]", path, i))
				if err != nil {
					return nil, err
				}
				in.Elems = append(in.Elems, sub)
			}
		}
		return in, nil

	case "count":
		arg, err := decodeExpr(body, path+".count")
		if err != nil {
			return nil, err
		}
		return queryast.Count{Arg: arg}, nil

	case "cast":
		m, ok := body.(map[string]any)
		if !ok {
			return nil, badExpr(path, "cast needs {arg, as}")
		}
		arg, err := decodeExpr(m["arg"], path+".cast.arg")
		if err != nil {
			return nil, err
		}
		typ, _ := m["as"].(string)
		return queryast.Cast{Arg: arg, Type: typ}, nil

	case "frag":
		m, ok := body.(map[string]any)
		if !ok {
			return nil, badExpr(path, "frag needs {text, args}")
		}
		text, _ := m["text"].(string)
		frag := queryast.Fragment{Text: text}
		if args, ok := m["args"].([]any); ok {
			for i, item := range args {
				sub, err := decodeExpr(item, fmt.Sprintf("%s.frag.args[%d]", path, i))
				if err != nil {
					return nil, err
				}
				frag.Args = append(frag.Args, sub)
			}
		}
		return frag, nil

	case "call":
		m, ok := body.(map[string]any)
		if !ok {
			return nil, badExpr(path, "call needs {fn, args}")
		}
		fn, _ := m["fn"].(string)
		call := queryast.Call{Fn: queryast.FuncName(fn)}
		if args, ok := m["args"].([]any); ok {
			for i, item := range args {
				sub, err := decodeExpr(item, fmt.Sprintf("%s.call.args[%d]", path, i))
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, sub)
			}
		}
		return call, nil

	case "or":
		items, ok := body.([]any)
		if !ok || len(items) != 2 {
			return nil, badExpr(path, "or needs a pair of expressions")
		}
		left, err := decodeExpr(items[0], path+".or[0]")
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(items[1], path+".or[1]")
		if err != nil {
			return nil, err
		}
		return queryast.Or{Left: left, Right: right}, nil

	case "not":
		arg, err := decodeExpr(body, path+".not")
		if err != nil {
			return nil, err
		}
		return queryast.Not{Arg: arg}, nil

	case "is_null":
		arg, err := decodeExpr(body, path+".is_null")
		if err != nil {
			return nil, err
		}
		return queryast.IsNull{Arg: arg}, nil

	default:
		return nil, &LoadError{
			Code:    ErrCodeBadDescription,
			Message: fmt.Sprintf("unknown expression tag %q", tag),
			Path:    path,
		}
	}
}

func decodeCompare(tag string, body any, path string) (queryast.Expr, error) {
	ops := map[string]queryast.CompareOp{
		"eq":  queryast.OpEq,
		"ne":  queryast.OpNeq,
		"lt":  queryast.OpLt,
		"lte": queryast.OpLte,
		"gt":  queryast.OpGt,
		"gte": queryast.OpGte,
	}

	items, ok := body.([]any)
	if !ok || len(items) != 2 {
		return nil, badExpr(path, tag+" needs a pair of expressions")
	}
	left, err := decodeExpr(items[0], fmt.Sprintf("%s.%s[0]", path, tag))
	if err != nil {
		return nil, err
	}
	right, err := decodeExpr(items[1], fmt.Sprintf("%s.%s[1]", path, tag))
	if err != nil {
		return nil, err
	}
	return queryast.Compare{Op: ops[tag], Left: left, Right: right}, nil
}

// decodeValue decodes a leaf value. Plain YAML scalars map to their
// semantic types; a {bigint: n} map asks for the blob-coerced rendering.
func decodeValue(raw any, path string) (queryast.Value, error) {
	switch v := raw.(type) {
	case string:
		return queryast.String(v), nil
	case int:
		return queryast.Int(v), nil
	case int64:
		return queryast.Int(v), nil
	case float64:
		return queryast.Float(v), nil
	case bool:
		return queryast.Bool(v), nil
	case nil:
		return queryast.Null{}, nil
	case map[string]any:
		if n, ok := v["bigint"]; ok && len(v) == 1 {
			switch b := n.(type) {
			case int:
				return queryast.BigInt(b), nil
			case int64:
				return queryast.BigInt(b), nil
			}
		}
		return nil, &LoadError{Code: ErrCodeBadDescription, Message: "unknown value form", Path: path}
	default:
		return nil, &LoadError{
			Code:    ErrCodeBadDescription,
			Message: fmt.Sprintf("unsupported value type %T", raw),
			Path:    path,
		}
	}
}

func badExpr(path, message string) *LoadError {
	return &LoadError{Code: ErrCodeBadDescription, Message: message, Path: path}
}
