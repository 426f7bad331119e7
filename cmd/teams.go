package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"duetrack/internal/api"
)

func teamCommand() *cli.Command {
	return &cli.Command{
		Name:  "team",
		Usage: "Manage teams and shared deadlines.",
		Subcommands: []*cli.Command{
			teamListCommand(),
			teamCreateCommand(),
			teamShowCommand(),
			teamInviteCommand(),
			teamRemoveCommand(),
			teamDeleteCommand(),
			teamDeadlinesCommand(),
			teamAssignCommand(),
			teamUnassignCommand(),
		},
	}
}

func teamListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List your teams.",
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			teams, err := svc.client.Teams(c.Context)
			if err != nil {
				return err
			}
			renderTeams(teams)
			return nil
		},
	}
}

func teamCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a team. You become its admin.",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "description"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("a team name is required")
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			team, err := svc.client.CreateTeam(c.Context, api.CreateTeamRequest{
				Name:        strings.Join(c.Args().Slice(), " "),
				Description: c.String("description"),
			})
			if err != nil {
				svc.toasts.Error("Team creation failed", err.Error())
				return err
			}
			svc.toasts.Info("Team created", fmt.Sprintf("#%d %s.", team.ID, team.Name))
			return nil
		},
	}
}

func teamShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a team and its roster.",
		ArgsUsage: "TEAM_ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("exactly one team id is required")
			}
			id, err := parseID(c.Args().First(), "team")
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			team, err := svc.client.Team(c.Context, id)
			if err != nil {
				return err
			}
			fmt.Printf("#%d %s\n", team.ID, team.Name)
			if team.Description != "" {
				fmt.Println(team.Description)
			}
			members, err := svc.client.TeamMembers(c.Context, id)
			if err != nil {
				return err
			}
			renderMembers(members)
			return nil
		},
	}
}

func teamInviteCommand() *cli.Command {
	return &cli.Command{
		Name:      "invite",
		Usage:     "Invite a user to a team by email.",
		ArgsUsage: "TEAM_ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true, Usage: "Email of the user to invite."},
			&cli.StringFlag{Name: "role", Value: "member", Usage: "admin, member or viewer."},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("exactly one team id is required")
			}
			id, err := parseID(c.Args().First(), "team")
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			// Malformed emails are rejected by request validation before
			// the invite endpoint is ever called.
			msg, err := svc.client.InviteMember(c.Context, id, api.InviteMemberRequest{
				UserEmail: c.String("email"),
				Role:      strings.ToLower(c.String("role")),
			})
			if err != nil {
				svc.toasts.Error("Invite failed", err.Error())
				return err
			}
			svc.toasts.Info("Member invited", msg.Message)
			return nil
		},
	}
}

func teamRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a member from a team.",
		ArgsUsage: "TEAM_ID USER_ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("a team id and a user id are required")
			}
			teamID, err := parseID(c.Args().Get(0), "team")
			if err != nil {
				return err
			}
			userID, err := parseID(c.Args().Get(1), "user")
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			msg, err := svc.client.RemoveMember(c.Context, teamID, userID)
			if err != nil {
				svc.toasts.Error("Removal failed", err.Error())
				return err
			}
			svc.toasts.Info("Member removed", msg.Message)
			return nil
		},
	}
}

func teamDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a team. Admin only.",
		ArgsUsage: "TEAM_ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("exactly one team id is required")
			}
			id, err := parseID(c.Args().First(), "team")
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			if err := svc.client.DeleteTeam(c.Context, id); err != nil {
				svc.toasts.Error("Deletion failed", err.Error())
				return err
			}
			svc.toasts.Info("Team deleted", fmt.Sprintf("#%d removed.", id))
			return nil
		},
	}
}

func teamDeadlinesCommand() *cli.Command {
	return &cli.Command{
		Name:      "deadlines",
		Usage:     "List the deadlines shared with a team.",
		ArgsUsage: "TEAM_ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("exactly one team id is required")
			}
			id, err := parseID(c.Args().First(), "team")
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			deadlines, err := svc.client.TeamDeadlines(c.Context, id)
			if err != nil {
				return err
			}
			renderDeadlines(deadlines)
			return nil
		},
	}
}

func teamAssignCommand() *cli.Command {
	return &cli.Command{
		Name:      "assign",
		Usage:     "Share one of your deadlines with a team.",
		ArgsUsage: "DEADLINE_ID TEAM_ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("a deadline id and a team id are required")
			}
			deadlineID, err := parseID(c.Args().Get(0), "deadline")
			if err != nil {
				return err
			}
			teamID, err := parseID(c.Args().Get(1), "team")
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			deadline, err := svc.client.AssignDeadlineToTeam(c.Context, deadlineID, teamID)
			if err != nil {
				svc.toasts.Error("Assign failed", err.Error())
				return err
			}
			svc.toasts.Info("Deadline shared", fmt.Sprintf("#%d %s is now visible to team %d.", deadline.ID, deadline.Title, teamID))
			return nil
		},
	}
}

func teamUnassignCommand() *cli.Command {
	return &cli.Command{
		Name:      "unassign",
		Usage:     "Make a shared deadline personal again.",
		ArgsUsage: "DEADLINE_ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("exactly one deadline id is required")
			}
			deadlineID, err := parseID(c.Args().First(), "deadline")
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			deadline, err := svc.client.RemoveDeadlineFromTeam(c.Context, deadlineID)
			if err != nil {
				svc.toasts.Error("Unassign failed", err.Error())
				return err
			}
			svc.toasts.Info("Deadline unshared", fmt.Sprintf("#%d %s.", deadline.ID, deadline.Title))
			return nil
		},
	}
}
