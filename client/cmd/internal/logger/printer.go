package logger

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ethan-root/Dataworks/core/cleanup"
	"github.com/ethan-root/Dataworks/core/project"
	"github.com/ethan-root/Dataworks/ext/dataworks"
)

// ProjectReport is the outcome of deploying one project directory
type ProjectReport struct {
	Name  string
	Stats project.Stats
	Err   error
}

func StringifyProjectReports(reports []ProjectReport) string {
	buff := &bytes.Buffer{}
	table := tablewriter.NewWriter(buff)
	table.SetBorder(false)
	table.SetHeader([]string{
		"Project",
		"Created",
		"Updated",
		"Skipped",
		"Failed",
		"Status",
	})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, report := range reports {
		status := "ok"
		if report.Err != nil || report.Stats.Failed > 0 {
			status = "failed"
		}
		table.Append([]string{
			report.Name,
			strconv.Itoa(report.Stats.Created),
			strconv.Itoa(report.Stats.Updated),
			strconv.Itoa(report.Stats.Skipped),
			strconv.Itoa(report.Stats.Failed),
			status,
		})
	}
	table.Render()
	return buff.String()
}

func StringifyResults(results []project.Result) string {
	buff := &bytes.Buffer{}
	table := tablewriter.NewWriter(buff)
	table.SetBorder(false)
	table.SetHeader([]string{
		"Node",
		"NodeId",
		"Outcome",
		"Changes",
	})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, result := range results {
		table.Append([]string{
			result.NodeName,
			result.NodeID.String(),
			string(result.Outcome),
			strconv.Itoa(len(result.Differences)),
		})
	}
	table.Render()
	return buff.String()
}

func StringifyResourceGroups(groups []dataworks.ResourceGroup) string {
	buff := &bytes.Buffer{}
	table := tablewriter.NewWriter(buff)
	table.SetBorder(false)
	table.SetHeader([]string{
		"Identifier",
		"Name",
		"Type",
		"Status",
	})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, group := range groups {
		table.Append([]string{
			group.ID.String(),
			group.Name,
			group.ResourceGroupType,
			group.Status,
		})
	}
	table.Render()
	return buff.String()
}

func StringifyCleanupSummary(summary cleanup.Summary) string {
	buff := &bytes.Buffer{}
	table := tablewriter.NewWriter(buff)
	table.SetBorder(false)
	table.SetHeader([]string{
		"Table",
		"Created At",
		"Action",
		"Reason",
	})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, decision := range summary.Decisions {
		createdAt := "-"
		if !decision.CreatedAt.IsZero() {
			createdAt = decision.CreatedAt.Format(time.RFC3339)
		}
		table.Append([]string{
			decision.Table,
			createdAt,
			string(decision.Action),
			decision.Reason,
		})
	}

	deletedLabel := "To delete"
	if summary.Executed {
		deletedLabel = "Deleted"
	}
	table.SetFooter([]string{
		"",
		"",
		fmt.Sprintf("%s: %d  Kept: %d", deletedLabel, summary.Deleted, summary.Kept),
		fmt.Sprintf("Whitelisted: %d  Failed: %d", summary.Whitelisted, summary.Failed),
	})
	table.Render()
	return buff.String()
}
