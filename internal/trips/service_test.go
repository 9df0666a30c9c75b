package trips

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweave-app/tripweave/internal/api"
)

type memberKey struct{ workspace, user uuid.UUID }

type fakeRepo struct {
	workspaces map[uuid.UUID]*Workspace
	members    map[memberKey]bool
	ideas      map[uuid.UUID]*Idea
	proposals  map[uuid.UUID][]Proposal
	likes      map[memberKey]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		workspaces: map[uuid.UUID]*Workspace{},
		members:    map[memberKey]bool{},
		ideas:      map[uuid.UUID]*Idea{},
		proposals:  map[uuid.UUID][]Proposal{},
		likes:      map[memberKey]bool{},
	}
}

func (r *fakeRepo) CreateWorkspace(_ context.Context, ws *Workspace) error {
	ws.CreatedAt = time.Now()
	r.workspaces[ws.ID] = ws
	r.members[memberKey{ws.ID, ws.OwnerID}] = true
	return nil
}

func (r *fakeRepo) ListWorkspaces(_ context.Context, userID uuid.UUID) ([]Workspace, error) {
	var out []Workspace
	for _, ws := range r.workspaces {
		if r.members[memberKey{ws.ID, userID}] {
			out = append(out, *ws)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetWorkspace(_ context.Context, id uuid.UUID) (*Workspace, error) {
	ws, ok := r.workspaces[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ws, nil
}

func (r *fakeRepo) IsMember(_ context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	return r.members[memberKey{workspaceID, userID}], nil
}

func (r *fakeRepo) AddMember(_ context.Context, workspaceID, userID uuid.UUID, _ string) error {
	r.members[memberKey{workspaceID, userID}] = true
	return nil
}

func (r *fakeRepo) CreateIdea(_ context.Context, idea *Idea) error {
	idea.CreatedAt = time.Now()
	idea.UpdatedAt = idea.CreatedAt
	r.ideas[idea.ID] = idea
	return nil
}

func (r *fakeRepo) ListIdeas(_ context.Context, workspaceID uuid.UUID) ([]Idea, error) {
	var out []Idea
	for _, idea := range r.ideas {
		if idea.WorkspaceID == workspaceID {
			out = append(out, *idea)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetIdea(_ context.Context, id uuid.UUID) (*Idea, error) {
	idea, ok := r.ideas[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *idea
	return &cp, nil
}

func (r *fakeRepo) UpdateIdeaStatus(_ context.Context, id uuid.UUID, status IdeaStatus) error {
	idea, ok := r.ideas[id]
	if !ok {
		return ErrNotFound
	}
	idea.Status = status
	return nil
}

func (r *fakeRepo) DeleteIdea(_ context.Context, id uuid.UUID) error {
	if _, ok := r.ideas[id]; !ok {
		return ErrNotFound
	}
	delete(r.ideas, id)
	return nil
}

func (r *fakeRepo) CreateProposal(_ context.Context, p *Proposal) error {
	p.CreatedAt = time.Now()
	r.proposals[p.IdeaID] = append(r.proposals[p.IdeaID], *p)
	return nil
}

func (r *fakeRepo) ListProposals(_ context.Context, ideaID uuid.UUID) ([]Proposal, error) {
	return r.proposals[ideaID], nil
}

func (r *fakeRepo) AddLike(_ context.Context, ideaID, userID uuid.UUID) error {
	r.likes[memberKey{ideaID, userID}] = true
	return nil
}

func (r *fakeRepo) RemoveLike(_ context.Context, ideaID, userID uuid.UUID) error {
	delete(r.likes, memberKey{ideaID, userID})
	return nil
}

type fixture struct {
	svc    *Service
	repo   *fakeRepo
	owner  uuid.UUID
	member uuid.UUID
	ws     *Workspace
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	owner := uuid.New()
	member := uuid.New()

	ws, err := svc.CreateWorkspace(context.Background(), owner, CreateWorkspaceRequest{Name: "Summer trip"})
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(context.Background(), ws.ID, member, "member"))

	return &fixture{svc: svc, repo: repo, owner: owner, member: member, ws: ws}
}

func (f *fixture) createIdea(t *testing.T, creator uuid.UUID) *Idea {
	t.Helper()
	idea, err := f.svc.CreateIdea(context.Background(), f.ws.ID, creator, CreateIdeaRequest{
		Title: "Kyoto in autumn",
	})
	require.NoError(t, err)
	return idea
}

func TestCreateIdea_StartsProposed(t *testing.T) {
	f := newFixture(t)
	idea := f.createIdea(t, f.member)

	assert.Equal(t, StatusProposed, idea.Status)
	assert.Equal(t, f.member, idea.CreatorID)
}

func TestCreateIdea_NonMemberDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateIdea(context.Background(), f.ws.ID, uuid.New(), CreateIdeaRequest{Title: "x"})
	assert.ErrorIs(t, err, api.ErrNotWorkspaceMember)
}

func TestPromoteIdea_Forward(t *testing.T) {
	f := newFixture(t)
	idea := f.createIdea(t, f.member)

	promoted, err := f.svc.PromoteIdea(context.Background(), idea.ID, f.member, StatusDiscussing)
	require.NoError(t, err)
	assert.Equal(t, StatusDiscussing, promoted.Status)

	// Skipping stages forward is fine.
	promoted, err = f.svc.PromoteIdea(context.Background(), idea.ID, f.member, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, promoted.Status)
}

func TestPromoteIdea_BackwardRejected(t *testing.T) {
	f := newFixture(t)
	idea := f.createIdea(t, f.member)

	_, err := f.svc.PromoteIdea(context.Background(), idea.ID, f.member, StatusPlanned)
	require.NoError(t, err)

	_, err = f.svc.PromoteIdea(context.Background(), idea.ID, f.member, StatusDiscussing)
	require.Error(t, err)

	var appErr *api.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)

	got, err := f.svc.GetIdea(context.Background(), idea.ID, f.member)
	require.NoError(t, err)
	assert.Equal(t, StatusPlanned, got.Status, "failed transition leaves status untouched")
}

func TestPromoteIdea_SameStatusRejected(t *testing.T) {
	f := newFixture(t)
	idea := f.createIdea(t, f.member)

	_, err := f.svc.PromoteIdea(context.Background(), idea.ID, f.member, StatusProposed)
	require.Error(t, err)
}

func TestDeleteIdea_CreatorAllowed(t *testing.T) {
	f := newFixture(t)
	idea := f.createIdea(t, f.member)

	require.NoError(t, f.svc.DeleteIdea(context.Background(), idea.ID, f.member))

	_, err := f.svc.GetIdea(context.Background(), idea.ID, f.member)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestDeleteIdea_WorkspaceOwnerAllowed(t *testing.T) {
	f := newFixture(t)
	idea := f.createIdea(t, f.member)

	require.NoError(t, f.svc.DeleteIdea(context.Background(), idea.ID, f.owner))
}

func TestDeleteIdea_OtherMemberDenied(t *testing.T) {
	f := newFixture(t)
	idea := f.createIdea(t, f.owner)

	err := f.svc.DeleteIdea(context.Background(), idea.ID, f.member)
	assert.ErrorIs(t, err, api.ErrForbidden)
}

func TestProposals(t *testing.T) {
	f := newFixture(t)
	idea := f.createIdea(t, f.member)

	p, err := f.svc.CreateProposal(context.Background(), idea.ID, f.owner, CreateProposalRequest{
		Kind:    ProposalPeriod,
		Content: "first week of October",
	})
	require.NoError(t, err)
	assert.Equal(t, ProposalPeriod, p.Kind)

	list, err := f.svc.ListProposals(context.Background(), idea.ID, f.member)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first week of October", list[0].Content)
}

func TestLikes(t *testing.T) {
	f := newFixture(t)
	idea := f.createIdea(t, f.owner)

	require.NoError(t, f.svc.LikeIdea(context.Background(), idea.ID, f.member))
	// Liking twice is a no-op, not an error.
	require.NoError(t, f.svc.LikeIdea(context.Background(), idea.ID, f.member))

	require.NoError(t, f.svc.UnlikeIdea(context.Background(), idea.ID, f.member))
	require.NoError(t, f.svc.UnlikeIdea(context.Background(), idea.ID, f.member))
}

func TestGetWorkspace_NonMemberDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetWorkspace(context.Background(), f.ws.ID, uuid.New())
	assert.ErrorIs(t, err, api.ErrNotWorkspaceMember)
}
