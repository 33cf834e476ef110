package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"go-todo-client/internal/collection"
	"go-todo-client/internal/dates"
	"go-todo-client/internal/models"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// printer は --output に応じて結果を書き出します。
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return &printer{w: w, format: format}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// structured は json/yaml の場合に v を書き出し true を返します。
func (p *printer) structured(v any) (bool, error) {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

func (p *printer) message(format string, args ...any) {
	if p.format == formatTable {
		fmt.Fprintf(p.w, format+"\n", args...)
	}
}

func (p *printer) users(users []models.User) error {
	if ok, err := p.structured(users); ok {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(p.w, "No users found.")
		return nil
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Name, u.Email)
	}
	return tw.Flush()
}

func (p *printer) user(u models.User) error {
	return p.users([]models.User{u})
}

// todos はTodoを order 順のまま表にします。所有者名は users から引きます。
func (p *printer) todos(todos []models.Todo, users *collection.Users, clock dates.Clock) error {
	if ok, err := p.structured(todos); ok {
		return err
	}
	if len(todos) == 0 {
		fmt.Fprintln(p.w, "No todos found.")
		return nil
	}
	now := clock.Now()
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tID\tDESCRIPTION\tPLANNED\tDUE\tOWNER\tSTATUS")
	for _, t := range todos {
		status := ""
		if dates.IsOverdue(t, now) {
			status = "OVERDUE"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			t.Order, t.ID, t.Description,
			dates.FormatDate(t.PlannedDate), dates.FormatDate(t.DueDate),
			users.NameOf(t.CreatedByUserID), status)
	}
	return tw.Flush()
}

func (p *printer) todo(t models.Todo, users *collection.Users, clock dates.Clock) error {
	if ok, err := p.structured(t); ok {
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", t.ID)
	fmt.Fprintf(tw, "Description:\t%s\n", t.Description)
	fmt.Fprintf(tw, "Order:\t%d\n", t.Order)
	fmt.Fprintf(tw, "Owner:\t%s\n", users.NameOf(t.CreatedByUserID))
	fmt.Fprintf(tw, "Created:\t%s\n", dates.FormatDate(&t.CreatedOn))
	fmt.Fprintf(tw, "Planned:\t%s\n", dates.FormatDate(t.PlannedDate))
	fmt.Fprintf(tw, "Due:\t%s\n", dates.FormatDate(t.DueDate))
	fmt.Fprintf(tw, "Overdue:\t%s\n", strconv.FormatBool(dates.IsOverdue(t, clock.Now())))
	return tw.Flush()
}

// object はストアから返る任意のJSONオブジェクトをキー順に表示します。
func (p *printer) object(obj map[string]any) error {
	if ok, err := p.structured(obj); ok {
		return err
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s:\t%v\n", k, obj[k])
	}
	return tw.Flush()
}
