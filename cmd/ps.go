package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/urfave/cli/v2"
)

var (
	psCmdDescription = `The ps command lists processes currently visible to
	this host, for inspecting what a run command or the http service left
	behind. With --pid it reports on a single process instead of listing
	all of them.`
	psCmd = &cli.Command{
		Name:        "ps",
		Usage:       "List or inspect running processes.",
		Description: psCmdDescription,
		Action:      psAction,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "pid",
				Usage: "report on a single pid instead of listing all processes.",
			},
		},
	}
)

type psEntry struct {
	PID        int32   `json:"pid"`
	PPID       int32   `json:"ppid"`
	Name       string  `json:"name"`
	Status     string  `json:"status,omitempty"`
	CPUPercent float64 `json:"cpuPercent"`
	MemPercent float32 `json:"memPercent"`
}

func psAction(ctx *cli.Context) error {
	if pid := ctx.Int("pid"); pid != 0 {
		entry, err := describeProcess(int32(pid))
		if err != nil {
			return fmt.Errorf("describe pid %d: %w", pid, err)
		}
		return printJSON(entry)
	}

	procs, err := process.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	entries := make([]psEntry, 0, len(procs))
	for _, p := range procs {
		entry, err := toEntry(p)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].PID < entries[j].PID })

	return printJSON(entries)
}

func describeProcess(pid int32) (psEntry, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return psEntry{}, err
	}
	return toEntry(p)
}

func toEntry(p *process.Process) (psEntry, error) {
	name, err := p.Name()
	if err != nil {
		return psEntry{}, err
	}

	ppid, _ := p.Ppid()
	status, _ := p.Status()
	cpuPercent, _ := p.CPUPercent()
	memPercent, _ := p.MemoryPercent()

	statusStr := ""
	if len(status) > 0 {
		statusStr = status[0]
	}

	return psEntry{
		PID:        p.Pid,
		PPID:       ppid,
		Name:       name,
		Status:     statusStr,
		CPUPercent: cpuPercent,
		MemPercent: memPercent,
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootApp.Commands = append(rootApp.Commands, psCmd)
}
