package sessionaccess

import (
	"context"

	"greenroom/internal/api"
	"greenroom/internal/ipc"
	"greenroom/internal/session"
)

// Access provides session operations regardless of IPC or direct store backing.
type Access interface {
	Stats(ctx context.Context) (map[string]int, error)
	List(ctx context.Context, statuses []string) ([]api.SessionItem, error)
	Describe(ctx context.Context, id int64) (*api.SessionItem, error)
	Answers(ctx context.Context, id int64) ([]api.AnswerItem, error)
	Create(ctx context.Context, role, interviewType string, questions int) (*api.SessionItem, error)
	Answer(ctx context.Context, id int64, text string) error
	ClearAll(ctx context.Context) (int64, error)
	ClearCompleted(ctx context.Context) (int64, error)
	ClearFailed(ctx context.Context) (int64, error)
	ResetStuck(ctx context.Context) (int64, error)
	RetryAll(ctx context.Context) (int64, error)
	Retry(ctx context.Context, ids []int64) (int64, error)
	Cancel(ctx context.Context, ids []int64) (int64, error)
	Health(ctx context.Context) (session.HealthSummary, error)
}

// NewIPCAccess returns an Access backed by daemon IPC.
func NewIPCAccess(client *ipc.Client) Access {
	return &ipcAccess{client: client}
}

// NewStoreAccess returns an Access backed by direct DB access.
func NewStoreAccess(store *session.Store) Access {
	return &storeAccess{store: store, service: api.NewSessionService(store)}
}

type ipcAccess struct {
	client *ipc.Client
}

func (a *ipcAccess) Stats(_ context.Context) (map[string]int, error) {
	resp, err := a.client.Status()
	if err != nil {
		return nil, err
	}
	return resp.SessionStats, nil
}

func (a *ipcAccess) List(_ context.Context, statuses []string) ([]api.SessionItem, error) {
	resp, err := a.client.SessionList(statuses)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (a *ipcAccess) Describe(_ context.Context, id int64) (*api.SessionItem, error) {
	resp, err := a.client.SessionDescribe(id)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return &resp.Item, nil
}

func (a *ipcAccess) Answers(_ context.Context, id int64) ([]api.AnswerItem, error) {
	resp, err := a.client.SessionDescribe(id)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return resp.Answers, nil
}

func (a *ipcAccess) Create(_ context.Context, role, interviewType string, questions int) (*api.SessionItem, error) {
	resp, err := a.client.SessionCreate(role, interviewType, questions)
	if err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (a *ipcAccess) Answer(_ context.Context, id int64, text string) error {
	_, err := a.client.SessionAnswer(id, text)
	return err
}

func (a *ipcAccess) ClearAll(_ context.Context) (int64, error) {
	resp, err := a.client.SessionClear()
	if err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

func (a *ipcAccess) ClearCompleted(_ context.Context) (int64, error) {
	resp, err := a.client.ClearCompleted()
	if err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

func (a *ipcAccess) ClearFailed(_ context.Context) (int64, error) {
	resp, err := a.client.ClearFailed()
	if err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

func (a *ipcAccess) ResetStuck(_ context.Context) (int64, error) {
	resp, err := a.client.ResetStuck()
	if err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (a *ipcAccess) RetryAll(_ context.Context) (int64, error) {
	resp, err := a.client.SessionRetry(nil)
	if err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (a *ipcAccess) Retry(_ context.Context, ids []int64) (int64, error) {
	resp, err := a.client.SessionRetry(ids)
	if err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (a *ipcAccess) Cancel(_ context.Context, ids []int64) (int64, error) {
	resp, err := a.client.SessionCancel(ids)
	if err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (a *ipcAccess) Health(_ context.Context) (session.HealthSummary, error) {
	resp, err := a.client.SessionHealth()
	if err != nil {
		return session.HealthSummary{}, err
	}
	return session.HealthSummary{
		Total:      resp.Total,
		Pending:    resp.Pending,
		Processing: resp.Processing,
		Failed:     resp.Failed,
		Review:     resp.Review,
		Completed:  resp.Completed,
	}, nil
}

type storeAccess struct {
	store   *session.Store
	service *api.SessionService
}

func (a *storeAccess) Stats(ctx context.Context) (map[string]int, error) {
	return a.service.Stats(ctx)
}

func (a *storeAccess) List(ctx context.Context, statuses []string) ([]api.SessionItem, error) {
	var filters []session.Status
	for _, s := range statuses {
		if parsed, ok := session.ParseStatus(s); ok {
			filters = append(filters, parsed)
		}
	}
	return a.service.List(ctx, filters...)
}

func (a *storeAccess) Describe(ctx context.Context, id int64) (*api.SessionItem, error) {
	return a.service.Describe(ctx, id)
}

func (a *storeAccess) Answers(ctx context.Context, id int64) ([]api.AnswerItem, error) {
	return a.service.Answers(ctx, id)
}

func (a *storeAccess) Create(ctx context.Context, role, interviewType string, questions int) (*api.SessionItem, error) {
	sess, err := a.store.NewSession(ctx, role, interviewType, questions)
	if err != nil {
		return nil, err
	}
	item := api.FromSession(sess)
	return &item, nil
}

func (a *storeAccess) Answer(ctx context.Context, id int64, text string) error {
	return a.store.SubmitPendingAnswer(ctx, id, text)
}

func (a *storeAccess) ClearAll(ctx context.Context) (int64, error) {
	return a.store.Clear(ctx)
}

func (a *storeAccess) ClearCompleted(ctx context.Context) (int64, error) {
	return a.store.ClearCompleted(ctx)
}

func (a *storeAccess) ClearFailed(ctx context.Context) (int64, error) {
	return a.store.ClearFailed(ctx)
}

func (a *storeAccess) ResetStuck(ctx context.Context) (int64, error) {
	return a.store.ResetStuckProcessing(ctx)
}

func (a *storeAccess) RetryAll(ctx context.Context) (int64, error) {
	return a.store.RetryFailed(ctx)
}

func (a *storeAccess) Retry(ctx context.Context, ids []int64) (int64, error) {
	return a.store.RetryFailed(ctx, ids...)
}

// Cancel parks sessions in review so a later retry can resume them. Terminal
// sessions are left untouched.
func (a *storeAccess) Cancel(ctx context.Context, ids []int64) (int64, error) {
	var count int64
	for _, id := range ids {
		sess, err := a.store.GetByID(ctx, id)
		if err != nil {
			return count, err
		}
		if sess == nil {
			continue
		}
		switch sess.Status {
		case session.StatusCompleted, session.StatusFailed, session.StatusReview:
			continue
		}
		sess.Status = session.StatusReview
		sess.NeedsReview = true
		sess.ReviewReason = session.UserStopReason
		sess.ErrorMessage = session.UserStopReason
		sess.ProgressStage = "Stopped"
		sess.LastHeartbeat = nil
		if err := a.store.Update(ctx, sess); err != nil {
			return count, err
		}
		if _, err := a.store.ClearPendingAnswers(ctx, id); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (a *storeAccess) Health(ctx context.Context) (session.HealthSummary, error) {
	return a.store.Health(ctx)
}
