package domain

import "testing"

func TestCustomerConvertRequiresContactPerson(t *testing.T) {
	c := must(MakeCustomer("rm-1", testCompanyInfo(t, "My Company Ltd.")))(t)
	if c.Status() != CustomerInitial || c.ID() == "" {
		t.Fatalf("unexpected new customer state: %q %q", c.Status(), c.ID())
	}
	expectErr(t, c.Convert("rm-1"), ErrNotEnoughContactPersons)

	must(c.AddContactPerson("rm-1", testContactPerson(t, "Anna", true)))(t)
	expectErr(t, c.Convert("someone-else"), ErrOnlyRelationManager)
	mustNoError(t, "convert", c.Convert("rm-1"))
	if c.Status() != CustomerConverted {
		t.Fatalf("expected converted, got %q", c.Status())
	}
	expectErr(t, c.Convert("rm-1"), ErrAlreadyConverted)

	mustNoError(t, "archive", c.Archive("rm-1"))
	expectErr(t, c.Archive("rm-1"), ErrAlreadyArchived)
	expectErr(t, c.Convert("rm-1"), ErrCannotConvertArchived)
}

func TestCustomerArchiveFromInitial(t *testing.T) {
	c := must(MakeCustomer("rm-1", testCompanyInfo(t, "Acme")))(t)
	expectErr(t, c.Archive("rm-2"), ErrOnlyRelationManager)
	mustNoError(t, "archive", c.Archive("rm-1"))
	if c.Status() != CustomerArchived {
		t.Fatalf("expected archived, got %q", c.Status())
	}
}

func TestCustomerContactPersonInvariants(t *testing.T) {
	c := must(MakeCustomer("rm-1", testCompanyInfo(t, "Acme")))(t)

	_, err := c.AddContactPerson("rm-1", testContactPerson(t, "Anna", false))
	expectErr(t, err, ErrNotEnoughPreferredContactMethods)

	first := must(c.AddContactPerson("rm-1", testContactPerson(t, "Anna", true)))(t)
	_, err = c.AddContactPerson("rm-1", testContactPerson(t, "Anna", true))
	expectErr(t, err, ErrDuplicateContactPerson)

	dup := testContactPerson(t, "Bob", true)
	dup.ContactMethods = append(dup.ContactMethods, dup.ContactMethods[0])
	_, err = c.AddContactPerson("rm-1", dup)
	expectErr(t, err, ErrDuplicateContactMethod)

	_, err = c.AddContactPerson("intruder", testContactPerson(t, "Bob", true))
	expectErr(t, err, ErrOnlyRelationManager)

	if got := len(c.ContactPersons()); got != 1 {
		t.Fatalf("failed additions must not change the collection, got %d persons", got)
	}

	title := "CEO"
	updated := must(c.UpdateContactPerson("rm-1", first.ID, ContactPersonUpdate{JobTitle: &title}))(t)
	if updated.JobTitle != "CEO" || len(updated.ContactMethods) != 1 {
		t.Fatalf("unexpected update result %+v", updated)
	}
	notPreferred := []ContactMethod{must(NewContactMethod(ContactMethodPhone, "+48123456789", false))(t)}
	_, err = c.UpdateContactPerson("rm-1", first.ID, ContactPersonUpdate{ContactMethods: notPreferred})
	expectErr(t, err, ErrNotEnoughPreferredContactMethods)
	if view, _ := c.ContactPerson(first.ID); view.ContactMethods[0].Type() != ContactMethodEmail {
		t.Fatalf("rejected update leaked into aggregate: %+v", view)
	}

	expectErr(t, c.RemoveContactPerson("rm-1", "missing"), ErrContactPersonNotFound)
	mustNoError(t, "remove", c.RemoveContactPerson("rm-1", first.ID))
	if len(c.ContactPersons()) != 0 {
		t.Fatalf("expected contact person removed")
	}
}

func TestCustomerViewsAreCopies(t *testing.T) {
	c := must(MakeCustomer("rm-1", testCompanyInfo(t, "Acme")))(t)
	view := must(c.AddContactPerson("rm-1", testContactPerson(t, "Anna", true)))(t)
	view.ContactMethods[0] = ContactMethod{}
	stored, ok := c.ContactPerson(view.ID)
	if !ok || stored.ContactMethods[0].Value() != "Anna@example.com" {
		t.Fatalf("mutating a view must not affect the aggregate: %+v", stored)
	}
}

func TestCustomerChangeRelationManager(t *testing.T) {
	c := must(MakeCustomer("rm-1", testCompanyInfo(t, "Acme")))(t)
	expectErr(t, c.ChangeRelationManager("rm-2", "rm-2"), ErrOnlyRelationManager)
	mustNoError(t, "change", c.ChangeRelationManager("rm-1", "rm-2"))
	if c.RelationManagerID() != "rm-2" {
		t.Fatalf("expected new relation manager")
	}
	expectErr(t, c.UpdateCompanyInfo("rm-1", testCompanyInfo(t, "Other")), ErrOnlyRelationManager)
	mustNoError(t, "update info", c.UpdateCompanyInfo("rm-2", testCompanyInfo(t, "Other")))
	if c.CompanyInfo().Name() != "Other" {
		t.Fatalf("expected company info replaced")
	}
}

func TestReconstituteCustomerSkipsCreationChecks(t *testing.T) {
	c := ReconstituteCustomer(CustomerState{
		ID:                "c-1",
		RelationManagerID: "rm-1",
		CompanyInfo:       testCompanyInfo(t, "Legacy"),
		Status:            CustomerConverted,
	})
	if c.ID() != "c-1" || c.Status() != CustomerConverted || len(c.ContactPersons()) != 0 {
		t.Fatalf("unexpected reconstituted customer")
	}
	if _, err := ParseCustomerStatus("frozen"); err == nil {
		t.Fatalf("expected invalid status error")
	}
}
