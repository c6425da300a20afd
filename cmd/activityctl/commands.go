package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/communitydesk/activityhub/internal/client"
	"github.com/communitydesk/activityhub/internal/models"
)

type fieldFlags struct {
	activityType string
	title        string
	date         string
	timeOfDay    string
	description  string
	location     string
	capacity     int

	presenter string
	materials string

	mentor string
	mentee string
	focus  string

	format   string
	partners string
}

func (f *fieldFlags) register(cmd *cobra.Command, withType bool) {
	if withType {
		cmd.Flags().StringVar(&f.activityType, "type", "", "activity type (workshop|mentoring|networking)")
	}
	cmd.Flags().StringVar(&f.title, "title", "", "activity title")
	cmd.Flags().StringVar(&f.date, "date", "", "activity date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.timeOfDay, "time", "", "activity time (HH:MM)")
	cmd.Flags().StringVar(&f.description, "description", "", "free-text description")
	cmd.Flags().StringVar(&f.location, "location", "", "location")
	cmd.Flags().IntVar(&f.capacity, "capacity", 0, "maximum attendance")
	cmd.Flags().StringVar(&f.presenter, "presenter", "", "workshop presenter")
	cmd.Flags().StringVar(&f.materials, "materials", "", "workshop materials")
	cmd.Flags().StringVar(&f.mentor, "mentor", "", "mentoring mentor")
	cmd.Flags().StringVar(&f.mentee, "mentee", "", "mentoring mentee")
	cmd.Flags().StringVar(&f.focus, "focus", "", "mentoring focus area")
	cmd.Flags().StringVar(&f.format, "format", "", "networking format (mixer|roundtable|speed-networking|panel|other)")
	cmd.Flags().StringVar(&f.partners, "partners", "", "networking partners")
}

func (f *fieldFlags) input(cmd *cobra.Command) client.Input {
	in := client.Input{
		Type:        f.activityType,
		Title:       f.title,
		Date:        f.date,
		Time:        f.timeOfDay,
		Description: f.description,
		Location:    f.location,
		Presenter:   f.presenter,
		Materials:   f.materials,
		Mentor:      f.mentor,
		Mentee:      f.mentee,
		Focus:       f.focus,
		Format:      f.format,
		Partners:    f.partners,
	}
	if cmd.Flags().Changed("capacity") {
		capacity := f.capacity
		in.Capacity = &capacity
	}
	return in
}

func newAddCommand(opts *cliOptions) *cobra.Command {
	fields := &fieldFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := opts.session()
			status, err := s.Dispatcher.Execute(cmd.Context(), client.Command{Name: client.CommandAdd}, fields.input(cmd))
			if err != nil {
				return err
			}
			fmt.Println(status)
			return nil
		},
	}
	fields.register(cmd, true)
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func newUpdateCommand(opts *cliOptions) *cobra.Command {
	fields := &fieldFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of an existing activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := opts.session()
			status, err := s.Dispatcher.Execute(cmd.Context(), client.Command{Name: client.CommandUpdate, Args: args}, fields.input(cmd))
			if err != nil {
				return err
			}
			fmt.Println(status)
			return nil
		},
	}
	fields.register(cmd, false)
	return cmd
}

func newSimpleCommand(opts *cliOptions, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := opts.session()
			status, err := s.Dispatcher.Execute(cmd.Context(), client.Command{Name: name, Args: args}, client.Input{})
			if err != nil {
				return err
			}
			fmt.Println(status)
			return nil
		},
	}
}

func newDeleteCommand(opts *cliOptions) *cobra.Command {
	return newSimpleCommand(opts, client.CommandDelete, "Delete an activity")
}

func newCompleteCommand(opts *cliOptions) *cobra.Command {
	return newSimpleCommand(opts, client.CommandComplete, "Mark an activity as completed")
}

func newCancelCommand(opts *cliOptions) *cobra.Command {
	return newSimpleCommand(opts, client.CommandCancel, "Cancel an activity")
}

func newUndoCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last local change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := opts.session()
			status, err := s.Dispatcher.Execute(cmd.Context(), client.Command{Name: client.CommandUndo}, client.Input{})
			if err != nil {
				return err
			}
			fmt.Println(status)
			return nil
		},
	}
}

func newListCommand(opts *cliOptions) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities from the local working set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := opts.session()
			if remote {
				if _, err := s.Remote.FetchActivities(cmd.Context()); err != nil {
					return err
				}
			}
			printActivities(s.Collection.ToArray())
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "refresh from the server before listing")
	return cmd
}

func newPullCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace the local working set with the server's activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := opts.session()
			activities, err := s.Remote.FetchActivities(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Fetched %d activities\n", len(activities))
			return nil
		},
	}
}

func newPushCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Push the local working set to the server (upsert by id)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := opts.session()
			synced, err := s.Remote.SyncActivities(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Synced; server now holds %d activities\n", len(synced))
			return nil
		},
	}
}

func newStatsCommand(opts *cliOptions) *cobra.Command {
	var remote bool
	var startDate, endDate string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate activity statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := opts.session()
			var stats models.Stats
			if remote {
				var err error
				stats, err = s.Remote.Statistics(cmd.Context(), startDate, endDate)
				if err != nil {
					return err
				}
			} else {
				stats = s.Collection.Stats(startDate, endDate)
			}
			printStats(stats)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "compute on the server instead of locally")
	cmd.Flags().StringVar(&startDate, "start", "", "start of date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "end of date range (YYYY-MM-DD)")
	return cmd
}

func newMentorsCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mentors",
		Short: "List distinct mentors across mentoring activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := opts.session()
			mentors, err := s.Remote.Mentors(cmd.Context())
			if err != nil {
				return err
			}
			for _, mentor := range mentors {
				fmt.Println(mentor)
			}
			return nil
		},
	}
}

func newDashboardCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show upcoming activities, recent completions and statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := opts.session()
			dashboard, err := s.Remote.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			_, _ = bold.Println("Upcoming")
			printActivities(dashboard.Upcoming)
			_, _ = bold.Println("Recently completed")
			printActivities(dashboard.Recent)
			_, _ = bold.Println("Statistics")
			printStats(dashboard.Stats)
			return nil
		},
	}
}

func printActivities(activities []models.Activity) {
	if len(activities) == 0 {
		faint := color.New(color.Faint, color.Italic)
		_, _ = faint.Println("  none")
		return
	}

	sort.Slice(activities, func(i, j int) bool {
		if activities[i].Date != activities[j].Date {
			return activities[i].Date < activities[j].Date
		}
		return activities[i].Time < activities[j].Time
	})

	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("ID", "TYPE", "TITLE", "DATE", "TIME", "STATUS")
	for _, a := range activities {
		table.AddRow(a.ID, a.Type, a.Title, a.Date, a.Time, statusLabel(a))
	}
	fmt.Println(table)
}

func printStats(stats models.Stats) {
	table := uitable.New()
	table.AddRow("total", stats.Total)
	table.AddRow("workshops", stats.ByType[models.TypeWorkshop])
	table.AddRow("mentoring", stats.ByType[models.TypeMentoring])
	table.AddRow("networking", stats.ByType[models.TypeNetworking])
	table.AddRow("upcoming", stats.ByStatus[models.StatusUpcoming])
	table.AddRow("completed", stats.ByStatus[models.StatusCompleted])
	table.AddRow("cancelled", stats.ByStatus[models.StatusCancelled])
	table.AddRow("completion rate", fmt.Sprintf("%.1f%%", stats.CompletionRate))
	fmt.Println(table)
}

func statusLabel(a models.Activity) string {
	switch a.Status() {
	case models.StatusCompleted:
		return color.GreenString(models.StatusCompleted)
	case models.StatusCancelled:
		return color.RedString(models.StatusCancelled)
	default:
		return models.StatusUpcoming
	}
}
