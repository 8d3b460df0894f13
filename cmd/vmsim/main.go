// Command vmsim translates a stream of logical addresses through a simulated
// TLB, page table and demand-paged physical memory.
package main

import "github.com/sarchlab/vmsim/cmd/vmsim/cmd"

func main() {
	cmd.Execute()
}
