package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"
)

var psCmd = &cobra.Command{
	Use:   "ps <pid>",
	Short: "Inspect a running descriptor's process group",
	Long: "Inspect a running descriptor's process group.\n\n" +
		"atomiccmd gives every child its own process group so a single SIGTERM\n" +
		"reaches every descendant it spawns; ps lists that group's members by\n" +
		"scanning for processes whose parent chain includes the given pid, the\n" +
		"same membership a killlist SIGTERM would reach.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid pid %q: %w", args[0], err)
		}
		return printProcessGroup(cmd, int32(pid))
	},
}

func printProcessGroup(cmd *cobra.Command, root int32) error {
	all, err := process.Processes()
	if err != nil {
		return fmt.Errorf("listing processes: %w", err)
	}

	members := map[int32]*process.Process{}
	var collect func(pid int32)
	collect = func(pid int32) {
		for _, p := range all {
			if _, seen := members[p.Pid]; seen {
				continue
			}
			ppid, err := p.Ppid()
			if err != nil || ppid != pid {
				continue
			}
			members[p.Pid] = p
			collect(p.Pid)
		}
	}

	rootProc, err := process.NewProcess(root)
	if err != nil {
		return fmt.Errorf("pid %d not found: %w", root, err)
	}
	members[root] = rootProc
	collect(root)

	for pid := range members {
		p := members[pid]
		name, _ := p.Name()
		created, _ := p.CreateTime()
		age := time.Since(time.UnixMilli(created))
		mem, _ := p.MemoryInfo()

		rss := "?"
		if mem != nil {
			rss = humanize.Bytes(mem.RSS)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-8d %-20s up %-12s rss %s\n", pid, name, humanize.RelTime(time.Now().Add(-age), time.Now(), "", ""), rss)
	}
	return nil
}
