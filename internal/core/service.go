// Package core wires storage selection and exposes the CRM use cases as a
// transactional service over the domain units of work.
package core

import (
	"context"
	"fmt"

	"crmcore/internal/platform/logger"
	"crmcore/pkg/domain"
	"crmcore/pkg/filter"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger receiving use-case failures.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = logger.OrNop(l) }
}

// Service runs each use case in its own unit of work: load, apply, save.
type Service struct {
	storage domain.Storage
	log     *logger.Logger
}

// NewService constructs a service backed by the supplied storage.
func NewService(storage domain.Storage, opts ...Option) *Service {
	s := &Service{storage: storage, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Storage returns the underlying storage implementation.
func (s *Service) Storage() domain.Storage { return s.storage }

func (s *Service) fail(op, id string, err error) error {
	if err == nil {
		return nil
	}
	s.log.Warn("operation failed", "op", op, "id", id, "error", err)
	if id == "" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s %q: %w", op, id, err)
}

// create stores a freshly built aggregate.
func create[A any, R domain.Repository[A]](ctx context.Context, s *Service, op string, uow domain.UnitOfWork[R], id string, agg A) error {
	err := domain.Within(ctx, uow, func(repo R) error {
		return repo.Create(ctx, agg)
	})
	return s.fail(op, id, err)
}

// mutate loads the aggregate id, applies fn and saves the result.
func mutate[A any, R domain.Repository[A]](ctx context.Context, s *Service, op string, uow domain.UnitOfWork[R], id string, fn func(A) error) (A, error) {
	var loaded A
	err := domain.Within(ctx, uow, func(repo R) error {
		agg, ok, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
		if err := fn(agg); err != nil {
			return err
		}
		if err := repo.Update(ctx, agg); err != nil {
			return err
		}
		loaded = agg
		return nil
	})
	if err != nil {
		var zero A
		return zero, s.fail(op, id, err)
	}
	return loaded, nil
}

// load reads one aggregate inside a unit of work that is rolled back.
func load[A any, R domain.Repository[A]](ctx context.Context, s *Service, op string, uow domain.UnitOfWork[R], id string) (A, error) {
	var zero A
	if err := uow.Begin(ctx); err != nil {
		return zero, s.fail(op, id, err)
	}
	agg, ok, err := uow.Repository().Get(ctx, id)
	if rbErr := uow.Rollback(ctx); err == nil {
		err = rbErr
	}
	if err == nil && !ok {
		err = domain.ErrNotFound
	}
	if err != nil {
		return zero, s.fail(op, id, err)
	}
	return agg, nil
}

// CreateCustomer registers a new customer managed by relationManagerID.
func (s *Service) CreateCustomer(ctx context.Context, relationManagerID string, info domain.CompanyInfo) (*domain.Customer, error) {
	c, err := domain.MakeCustomer(relationManagerID, info)
	if err != nil {
		return nil, s.fail("create customer", "", err)
	}
	if err := create(ctx, s, "create customer", s.storage.Customers(), c.ID(), c); err != nil {
		return nil, err
	}
	return c, nil
}

// Customer returns the customer with id or ErrNotFound.
func (s *Service) Customer(ctx context.Context, id string) (*domain.Customer, error) {
	return load[*domain.Customer](ctx, s, "get customer", s.storage.Customers(), id)
}

func (s *Service) ConvertCustomer(ctx context.Context, id, requestorID string) (*domain.Customer, error) {
	return mutate(ctx, s, "convert customer", s.storage.Customers(), id, func(c *domain.Customer) error {
		return c.Convert(requestorID)
	})
}

func (s *Service) ArchiveCustomer(ctx context.Context, id, requestorID string) (*domain.Customer, error) {
	return mutate(ctx, s, "archive customer", s.storage.Customers(), id, func(c *domain.Customer) error {
		return c.Archive(requestorID)
	})
}

// AddContactPerson adds a contact person and returns its view.
func (s *Service) AddContactPerson(ctx context.Context, customerID, requestorID string, data domain.ContactPersonData) (domain.ContactPersonView, error) {
	var view domain.ContactPersonView
	_, err := mutate(ctx, s, "add contact person", s.storage.Customers(), customerID, func(c *domain.Customer) error {
		var err error
		view, err = c.AddContactPerson(requestorID, data)
		return err
	})
	if err != nil {
		return domain.ContactPersonView{}, err
	}
	return view, nil
}

func (s *Service) UpdateContactPerson(ctx context.Context, customerID, requestorID, personID string, u domain.ContactPersonUpdate) (domain.ContactPersonView, error) {
	var view domain.ContactPersonView
	_, err := mutate(ctx, s, "update contact person", s.storage.Customers(), customerID, func(c *domain.Customer) error {
		var err error
		view, err = c.UpdateContactPerson(requestorID, personID, u)
		return err
	})
	if err != nil {
		return domain.ContactPersonView{}, err
	}
	return view, nil
}

func (s *Service) RemoveContactPerson(ctx context.Context, customerID, requestorID, personID string) (*domain.Customer, error) {
	return mutate(ctx, s, "remove contact person", s.storage.Customers(), customerID, func(c *domain.Customer) error {
		return c.RemoveContactPerson(requestorID, personID)
	})
}

func (s *Service) ChangeRelationManager(ctx context.Context, customerID, requestorID, newManagerID string) (*domain.Customer, error) {
	return mutate(ctx, s, "change relation manager", s.storage.Customers(), customerID, func(c *domain.Customer) error {
		return c.ChangeRelationManager(requestorID, newManagerID)
	})
}

func (s *Service) UpdateCompanyInfo(ctx context.Context, customerID, requestorID string, info domain.CompanyInfo) (*domain.Customer, error) {
	return mutate(ctx, s, "update company info", s.storage.Customers(), customerID, func(c *domain.Customer) error {
		return c.UpdateCompanyInfo(requestorID, info)
	})
}

// CreateLead registers an unassigned lead.
func (s *Service) CreateLead(ctx context.Context, customerID, createdByID string, source domain.AcquisitionSource, contact domain.ContactData) (*domain.Lead, error) {
	l, err := domain.MakeLead(customerID, createdByID, source, contact)
	if err != nil {
		return nil, s.fail("create lead", "", err)
	}
	if err := create(ctx, s, "create lead", s.storage.Leads(), l.ID(), l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) Lead(ctx context.Context, id string) (*domain.Lead, error) {
	return load[*domain.Lead](ctx, s, "get lead", s.storage.Leads(), id)
}

// AssignLead hands the lead to newOwnerID on behalf of requestorID.
func (s *Service) AssignLead(ctx context.Context, id, newOwnerID, requestorID string) (*domain.Lead, error) {
	return mutate(ctx, s, "assign lead", s.storage.Leads(), id, func(l *domain.Lead) error {
		return l.AssignSalesman(newOwnerID, requestorID)
	})
}

func (s *Service) ChangeLeadNote(ctx context.Context, id, content, editorID string) (*domain.Lead, error) {
	return mutate(ctx, s, "change lead note", s.storage.Leads(), id, func(l *domain.Lead) error {
		return l.ChangeNote(content, editorID)
	})
}

func (s *Service) UpdateLead(ctx context.Context, id, editorID string, u domain.LeadUpdate) (*domain.Lead, error) {
	return mutate(ctx, s, "update lead", s.storage.Leads(), id, func(l *domain.Lead) error {
		return l.Update(editorID, u)
	})
}

// CreateOpportunity registers an opportunity owned by createdByID.
func (s *Service) CreateOpportunity(ctx context.Context, customerID, createdByID string, source domain.AcquisitionSource, stage domain.OpportunityStage, priority domain.Priority, offer []domain.OfferItem) (*domain.Opportunity, error) {
	o, err := domain.MakeOpportunity(customerID, createdByID, source, stage, priority, offer)
	if err != nil {
		return nil, s.fail("create opportunity", "", err)
	}
	if err := create(ctx, s, "create opportunity", s.storage.Opportunities(), o.ID(), o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Opportunity(ctx context.Context, id string) (*domain.Opportunity, error) {
	return load[*domain.Opportunity](ctx, s, "get opportunity", s.storage.Opportunities(), id)
}

func (s *Service) ModifyOffer(ctx context.Context, id string, offer []domain.OfferItem, editorID string) (*domain.Opportunity, error) {
	return mutate(ctx, s, "modify offer", s.storage.Opportunities(), id, func(o *domain.Opportunity) error {
		return o.ModifyOffer(offer, editorID)
	})
}

func (s *Service) ChangeOpportunityNote(ctx context.Context, id, content, editorID string) (*domain.Opportunity, error) {
	return mutate(ctx, s, "change opportunity note", s.storage.Opportunities(), id, func(o *domain.Opportunity) error {
		return o.ChangeNote(content, editorID)
	})
}

func (s *Service) UpdateOpportunity(ctx context.Context, id, editorID string, u domain.OpportunityUpdate) (*domain.Opportunity, error) {
	return mutate(ctx, s, "update opportunity", s.storage.Opportunities(), id, func(o *domain.Opportunity) error {
		return o.Update(editorID, u)
	})
}

func (s *Service) CreateSalesRepresentative(ctx context.Context, firstName, lastName string) (*domain.SalesRepresentative, error) {
	rep, err := domain.MakeSalesRepresentative(firstName, lastName)
	if err != nil {
		return nil, s.fail("create sales representative", "", err)
	}
	if err := create(ctx, s, "create sales representative", s.storage.SalesRepresentatives(), rep.ID(), rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *Service) SalesRepresentative(ctx context.Context, id string) (*domain.SalesRepresentative, error) {
	return load[*domain.SalesRepresentative](ctx, s, "get sales representative", s.storage.SalesRepresentatives(), id)
}

func (s *Service) UpdateSalesRepresentative(ctx context.Context, id, requestorID string, u domain.SalesRepresentativeUpdate) (*domain.SalesRepresentative, error) {
	return mutate(ctx, s, "update sales representative", s.storage.SalesRepresentatives(), id, func(rep *domain.SalesRepresentative) error {
		return rep.Update(requestorID, u)
	})
}

// FindCustomers and the other Find methods delegate to the storage query service.
func (s *Service) FindCustomers(ctx context.Context, conds ...filter.Condition) ([]*domain.Customer, error) {
	out, err := s.storage.Query().Customers(ctx, conds)
	return out, s.fail("find customers", "", err)
}

func (s *Service) FindLeads(ctx context.Context, conds ...filter.Condition) ([]*domain.Lead, error) {
	out, err := s.storage.Query().Leads(ctx, conds)
	return out, s.fail("find leads", "", err)
}

func (s *Service) FindOpportunities(ctx context.Context, conds ...filter.Condition) ([]*domain.Opportunity, error) {
	out, err := s.storage.Query().Opportunities(ctx, conds)
	return out, s.fail("find opportunities", "", err)
}

func (s *Service) FindSalesRepresentatives(ctx context.Context, conds ...filter.Condition) ([]*domain.SalesRepresentative, error) {
	out, err := s.storage.Query().SalesRepresentatives(ctx, conds)
	return out, s.fail("find sales representatives", "", err)
}
