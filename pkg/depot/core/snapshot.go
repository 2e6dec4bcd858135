package core

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/jabolina/depot/pkg/depot/types"
)

// Snapshot writes the diagnostic inventory dump to out: goods sorted by
// name with zero-quantity entries omitted, followed by neighbours
// sorted by name. It is produced under the depot lock, the same
// serialization point every other state access goes through.
func (d *DepotState) Snapshot(out io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	goods := make([]types.Good, 0, len(d.inventory))
	for name, quantity := range d.inventory {
		if quantity == 0 {
			continue
		}
		goods = append(goods, types.Good{Name: name, Quantity: quantity})
	}
	sort.Slice(goods, func(i, j int) bool { return goods[i].Name < goods[j].Name })

	names := make([]string, 0, len(d.neighbours))
	for _, n := range d.neighbours {
		names = append(names, n.RemoteName)
	}
	sort.Strings(names)

	w := bufio.NewWriter(out)
	fmt.Fprintln(w, "Goods:")
	for _, g := range goods {
		fmt.Fprintf(w, "%s %d\n", g.Name, g.Quantity)
	}
	fmt.Fprintln(w, "Neighbours:")
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	w.Flush()
}
