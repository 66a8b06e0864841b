package cli

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/vkuzmenko/passkeeper/internal/common"
	"github.com/vkuzmenko/passkeeper/internal/models"
)

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	password, err := GetPassword(os.Stdout, "Enter master password")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.service.Register(ctx, username, string(password)); err != nil {
		log.Printf("Registration unsuccessful: %v", err)
		return err
	}
	log.Printf("Registered. You can log in now.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	password, err := GetPassword(os.Stdout, "Enter master password")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.service.Login(ctx, username, string(password))
	if err != nil {
		log.Printf("Login unsuccessful: %v", err)
		return err
	}
	a.session = sess
	log.Printf("Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout()
	a.session = nil
	return nil
}

// readPayload collects the entry fields interactively.
func (a *App) readPayload() (models.EntryPayload, error) {
	var p models.EntryPayload
	var err error

	if p.Name, err = GetSimpleText(a.reader, "Entry name", os.Stdout); err != nil {
		return p, err
	}
	if p.Address, err = GetSimpleText(a.reader, "Address (URL)", os.Stdout); err != nil {
		return p, err
	}
	if p.Username, err = GetSimpleText(a.reader, "Username", os.Stdout); err != nil {
		return p, err
	}
	secret, err := GetPassword(os.Stdout, "Password")
	if err != nil {
		return p, err
	}
	p.Password = string(secret)
	common.WipeByteArray(secret)

	if p.Notes, err = GetMultiline(a.reader, "Notes", os.Stdout); err != nil {
		return p, err
	}
	return p, nil
}

func (a *App) AddEntry(ctx context.Context) error {
	p, err := a.readPayload()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	id, err := a.service.AddEntry(ctx, a.session, p)
	if err != nil {
		log.Printf("Add unsuccessful: %v", err)
		return err
	}
	log.Printf("Entry %s added", id)
	return nil
}

func (a *App) List(ctx context.Context) error {
	items, err := a.service.ListEntries(ctx, a.session)
	if err != nil {
		log.Printf("List unsuccessful: %v", err)
		return err
	}
	if len(items) == 0 {
		printlnFn("No entries yet")
		return nil
	}
	for _, item := range items {
		printlnFn(item.ID, "|", item.Name)
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Entry id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	p, err := a.service.GetEntry(ctx, a.session, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			log.Printf("Entry not found")
		} else {
			log.Printf("Show unsuccessful: %v", err)
		}
		return err
	}

	printlnFn("Name:    ", p.Name)
	printlnFn("Address: ", p.Address)
	printlnFn("Username:", p.Username)
	printlnFn("Password:", p.Password)
	printlnFn("Notes:   ", p.Notes)
	return nil
}

func (a *App) Edit(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Entry id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	p, err := a.readPayload()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.service.UpdateEntry(ctx, a.session, id, p); err != nil {
		log.Printf("Edit unsuccessful: %v", err)
		return err
	}
	log.Printf("Entry %s updated", id)
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Entry id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.service.DeleteEntry(ctx, a.session, id); err != nil {
		log.Printf("Delete unsuccessful: %v", err)
		return err
	}
	log.Printf("Entry %s deleted", id)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := GetPassword(os.Stdout, "Current master password")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := GetPassword(os.Stdout, "New master password")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer common.WipeByteArray(newPassword)

	if err := a.service.RotateMasterKey(ctx, a.session, string(oldPassword), string(newPassword)); err != nil {
		log.Printf("Master password change unsuccessful: %v", err)
		return err
	}
	log.Printf("Master password changed; all entries re-encrypted")
	return nil
}
