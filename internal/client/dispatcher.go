package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/communitydesk/activityhub/internal/dto"
	"github.com/communitydesk/activityhub/internal/models"
)

// Command names understood by the dispatcher.
const (
	CommandAdd      = "add"
	CommandUpdate   = "update"
	CommandDelete   = "delete"
	CommandComplete = "complete"
	CommandCancel   = "cancel"
	CommandUndo     = "undo"
)

// Command is one user intent: a name plus positional arguments (the target
// id for the per-item commands).
type Command struct {
	Name string
	Args []string
}

// Input carries the form-equivalent field values for add and update.
// Empty strings mean "not provided" for update.
type Input struct {
	Type        string
	Title       string
	Date        string
	Time        string
	Description string
	Location    string
	Capacity    *int

	Presenter string
	Materials string

	Mentor string
	Mentee string
	Focus  string

	Format   string
	Partners string
}

// Dispatcher translates commands into remote calls plus collection
// mutations. Every networked command awaits the server before local state
// changes, so a failed call leaves the collection untouched. Undo skips the
// network entirely.
type Dispatcher struct {
	col     *Collection
	history *History
	remote  *Remote
	logger  zerolog.Logger
}

// NewDispatcher wires the dispatcher to its collaborators.
func NewDispatcher(col *Collection, history *History, remote *Remote, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		col:     col,
		history: history,
		remote:  remote,
		logger:  logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Execute runs one command and returns a user-facing status message. An
// unknown command name is a programming error and panics.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command, in Input) (string, error) {
	switch cmd.Name {
	case CommandAdd:
		return d.add(ctx, in)
	case CommandUpdate:
		id, err := targetID(cmd)
		if err != nil {
			return "", err
		}
		return d.update(ctx, id, in)
	case CommandDelete:
		id, err := targetID(cmd)
		if err != nil {
			return "", err
		}
		if err := d.remote.DeleteActivity(ctx, id); err != nil {
			return "", err
		}
		return "Activity deleted successfully", nil
	case CommandComplete:
		id, err := targetID(cmd)
		if err != nil {
			return "", err
		}
		if err := d.remote.CompleteActivity(ctx, id); err != nil {
			return "", err
		}
		return "Activity completed successfully", nil
	case CommandCancel:
		id, err := targetID(cmd)
		if err != nil {
			return "", err
		}
		if err := d.remote.CancelActivity(ctx, id); err != nil {
			return "", err
		}
		return "Activity cancelled successfully", nil
	case CommandUndo:
		snapshot, ok := d.history.Undo()
		if !ok {
			return "Nothing to undo", nil
		}
		d.col.ReplaceList(snapshot)
		return "Reverted last change", nil
	default:
		panic(fmt.Sprintf("dispatcher: unknown command %q", cmd.Name))
	}
}

func (d *Dispatcher) add(ctx context.Context, in Input) (string, error) {
	if strings.TrimSpace(in.Title) == "" || in.Date == "" || in.Time == "" {
		return "", fmt.Errorf("title, date and time are required")
	}

	req := dto.CreateActivityRequest{
		Type:        in.Type,
		Title:       in.Title,
		Date:        in.Date,
		Time:        in.Time,
		Description: in.Description,
		Location:    in.Location,
		Capacity:    in.Capacity,
	}

	switch in.Type {
	case models.TypeWorkshop:
		req.Presenter = in.Presenter
		req.Materials = in.Materials
	case models.TypeMentoring:
		req.Mentor = in.Mentor
		req.Mentee = in.Mentee
		req.Focus = in.Focus
	case models.TypeNetworking:
		req.Format = in.Format
		req.Partners = in.Partners
	}

	created, err := d.remote.CreateActivity(ctx, req)
	if err != nil {
		return "", err
	}

	d.logger.Info().Str("activity_id", created.ID).Str("title", created.Title).Msg("activity created")
	return "Activity created successfully", nil
}

func (d *Dispatcher) update(ctx context.Context, id string, in Input) (string, error) {
	if _, ok := d.col.FindByID(id); !ok {
		return "", fmt.Errorf("activity %s not found", id)
	}

	req := dto.UpdateActivityRequest{
		Title:       optional(in.Title),
		Date:        optional(in.Date),
		Time:        optional(in.Time),
		Description: optional(in.Description),
		Location:    optional(in.Location),
		Capacity:    in.Capacity,
		Presenter:   optional(in.Presenter),
		Materials:   optional(in.Materials),
		Mentor:      optional(in.Mentor),
		Mentee:      optional(in.Mentee),
		Focus:       optional(in.Focus),
		Format:      optional(in.Format),
		Partners:    optional(in.Partners),
	}

	if _, err := d.remote.UpdateActivity(ctx, id, req); err != nil {
		return "", err
	}
	return "Activity updated successfully", nil
}

func targetID(cmd Command) (string, error) {
	if len(cmd.Args) == 0 || cmd.Args[0] == "" {
		return "", fmt.Errorf("%s requires an activity id", cmd.Name)
	}
	return cmd.Args[0], nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
