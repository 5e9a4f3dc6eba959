package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/grovetools/clueitems/internal/daemon/store"
	"github.com/grovetools/clueitems/progress"
	"github.com/grovetools/clueitems/tui/table"
	"github.com/grovetools/clueitems/tui/theme"
)

// filterItems keeps the item rows with the named status. An empty name keeps
// every row.
func filterItems(st store.State, status string) (store.State, error) {
	if status == "" {
		return st, nil
	}
	want, err := progress.ParseStatus(status)
	if err != nil {
		return st, err
	}
	items := make([]store.ItemRow, 0, len(st.Items))
	for _, row := range st.Items {
		if row.Status == want {
			items = append(items, row)
		}
	}
	st.Items = items
	return st, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// printState writes the panel as JSON or as tables.
func printState(cmd *cobra.Command, jsonOutput bool, st store.State) error {
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), st)
	}
	renderState(cmd.OutOrStdout(), st)
	return nil
}

// renderState prints the collection log panel as two tables.
func renderState(w io.Writer, st store.State) {
	t := theme.DefaultTheme
	s := st.Summary

	fmt.Fprintln(w, theme.RenderHeader("Emote clue items"))
	fmt.Fprintf(w, "%s owned  %s missing  %s unknown  of %d\n",
		t.Success.Render(strconv.Itoa(s.Owned)),
		t.Error.Render(strconv.Itoa(s.Missing)),
		t.Muted.Render(strconv.Itoa(s.Unknown)),
		s.Total)
	if st.ItemDisclaimer != "" {
		fmt.Fprintln(w, t.Warning.Render(st.ItemDisclaimer))
	}

	items := table.New("Item", "STASH unit", "Qty", "Log", "Status")
	for _, row := range st.Items {
		items.Row(
			row.Name,
			row.StashUnit,
			strconv.Itoa(row.Quantity),
			theme.RenderStatus(row.CollectionLogStatus.String()),
			theme.RenderStatus(row.Status.String()),
		)
	}
	fmt.Fprintln(w, items.Render())

	fmt.Fprintln(w, theme.RenderHeader("STASH units"))
	fmt.Fprintf(w, "%d built  %d filled  of %d\n", s.Built, s.Filled, len(st.StashUnits))
	if st.StashDisclaimer != "" {
		fmt.Fprintln(w, t.Warning.Render(st.StashDisclaimer))
	}

	units := table.New("Unit", "Tier", "Built", "Filled")
	for _, row := range st.StashUnits {
		units.Row(row.Name, row.Tier, yesNo(row.Built), yesNo(row.Filled))
	}
	fmt.Fprintln(w, units.Render())
}

// describeUpdate returns a one-line description of a panel update.
func describeUpdate(u store.Update) string {
	switch u.Type {
	case store.UpdateItem:
		if u.Item != nil {
			return fmt.Sprintf("item %s: %s (log %s, qty %d)",
				u.Item.Name, theme.RenderStatus(u.Item.Status.String()),
				u.Item.CollectionLogStatus, u.Item.Quantity)
		}
	case store.UpdateStash:
		if u.Stash != nil {
			return fmt.Sprintf("stash %s: built %s, filled %s", u.Stash.Name, yesNo(u.Stash.Built), yesNo(u.Stash.Filled))
		}
	case store.UpdateDisclaimer:
		if u.Text == "" {
			return fmt.Sprintf("%s disclaimer cleared", u.Grid)
		}
		return fmt.Sprintf("%s disclaimer: %s", u.Grid, u.Text)
	case store.UpdateNavigation:
		return fmt.Sprintf("navigation visible: %s", yesNo(u.Visible))
	case store.UpdateReset:
		return "panel reset"
	}
	return string(u.Type)
}
