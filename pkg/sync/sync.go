// Package sync reconciles a repository's live label set against the
// configured manifest: updates drifted labels in place, renames via the
// declared prior name, optionally deletes labels missing from the manifest,
// and creates whatever is left over.
package sync

import (
	"context"
	"strings"

	klog "k8s.io/klog/v2"

	"github.com/facelessuser/label-mgr-action/pkg/config"
	gh "github.com/facelessuser/label-mgr-action/pkg/github"
)

// Options control one reconciliation pass.
type Options struct {
	// Delete removes live labels absent from the manifest, unless ignored.
	Delete bool
	// DryRun computes every decision but issues no mutating call.
	DryRun bool
}

// Result counts the decisions of one pass.
type Result struct {
	Created int
	Updated int
	Deleted int
	Skipped int
}

// Syncer drives one reconciliation pass. It is single use and strictly
// sequential: the live list is fetched in full before any decision, and
// each mutating call completes before the next is issued.
type Syncer struct {
	client   gh.LabelService
	manifest *config.Manifest
	opts     Options
}

// New returns a Syncer for one pass over the manifest.
func New(client gh.LabelService, manifest *config.Manifest, opts Options) *Syncer {
	return &Syncer{client: client, manifest: manifest, opts: opts}
}

// labelEdit is the planned update for one matched live label.
type labelEdit struct {
	old         string
	new         string
	color       string
	description string
	modified    bool
}

// findLabel matches a live label against the manifest by the name each
// entry expects on the remote (the prior name when renamed). First match
// in declaration order wins.
func (s *Syncer) findLabel(name, color, description string) *labelEdit {
	for _, l := range s.manifest.Labels {
		oldName := l.MatchName()
		if !strings.EqualFold(name, oldName) {
			continue
		}
		modified := !strings.EqualFold(color, l.Color) || description != l.Description
		return &labelEdit{
			old:         oldName,
			new:         l.Name,
			color:       l.Color,
			description: l.Description,
			modified:    modified,
		}
	}
	return nil
}

// Sync runs the reconciliation pass. The first failed remote call aborts
// the pass; already applied mutations are left as-is and a re-run is the
// recovery mechanism.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	log := klog.FromContext(ctx)
	res := &Result{}

	live, err := s.client.ListLabels(ctx)
	if err != nil {
		return nil, err
	}

	accounted := map[string]bool{}
	for _, label := range live {
		name, color, description := label.GetName(), label.GetColor(), label.GetDescription()
		edit := s.findLabel(name, color, description)
		switch {
		case edit != nil:
			accounted[name] = true
			accounted[edit.new] = true
			if !edit.modified {
				log.Info("skipping label", "name", name, "color", color, "description", description)
				res.Skipped++
				continue
			}
			log.Info("updating label", "name", edit.new, "color", edit.color, "description", edit.description)
			if !s.opts.DryRun {
				if err := s.client.EditLabel(ctx, edit.old, edit.new, edit.color, edit.description); err != nil {
					return nil, err
				}
			}
			res.Updated++
		case s.opts.Delete && !s.manifest.Ignored(name):
			log.Info("deleting label", "name", name, "color", color, "description", description)
			if !s.opts.DryRun {
				if err := s.client.DeleteLabel(ctx, name); err != nil {
					return nil, err
				}
			}
			accounted[name] = true
			res.Deleted++
		default:
			log.Info("skipping label", "name", name, "color", color, "description", description)
			accounted[name] = true
			res.Skipped++
		}
	}

	for _, l := range s.manifest.Labels {
		if accounted[l.Name] {
			continue
		}
		log.Info("creating label", "name", l.Name, "color", l.Color, "description", l.Description)
		if !s.opts.DryRun {
			if err := s.client.CreateLabel(ctx, l.Name, l.Color, l.Description); err != nil {
				return nil, err
			}
		}
		res.Created++
	}
	return res, nil
}
