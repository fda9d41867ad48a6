package validators

import "testing"

func TestCNPJAcceptsValidMaskedNumber(t *testing.T) {
	if err := CNPJ("11.222.333/0001-81"); err != nil {
		t.Fatalf("expected valid cnpj, got %v", err)
	}
	if err := CNPJ("11222333000181"); err != nil {
		t.Fatalf("expected valid bare cnpj, got %v", err)
	}
}

func TestCNPJRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"123",
		"11.222.333/0001-82", // wrong second check digit
		"11.222.333/0001-91", // wrong first check digit
		"11111111111111",     // repeated digits
		"00.000.000/0000-00", // repeated digits with mask
		"11222333000181999",  // too long
	}
	for _, value := range cases {
		if err := CNPJ(value); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}

func TestPhone(t *testing.T) {
	if err := Phone("(11) 98765-4321"); err != nil {
		t.Fatalf("expected 11-digit phone to be valid, got %v", err)
	}
	if err := Phone("1133334444"); err != nil {
		t.Fatalf("expected 10-digit phone to be valid, got %v", err)
	}
	if err := Phone("998877"); err == nil {
		t.Fatalf("expected short phone to be rejected")
	}
	if err := Phone("119876543210"); err == nil {
		t.Fatalf("expected 12-digit phone to be rejected")
	}
}

func TestEmail(t *testing.T) {
	if err := Email("vendas@dell.com"); err != nil {
		t.Fatalf("expected valid e-mail, got %v", err)
	}
	for _, value := range []string{"", "semarroba.com", "a@b", "dois@@dominio.com"} {
		if err := Email(value); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}

func TestInvoiceNumber(t *testing.T) {
	if err := InvoiceNumber("12345"); err != nil {
		t.Fatalf("expected plain number to be valid, got %v", err)
	}
	if err := InvoiceNumber("123-45/2024"); err != nil {
		t.Fatalf("expected separators to be accepted, got %v", err)
	}
	if err := InvoiceNumber("12"); err == nil {
		t.Fatalf("expected short invoice number to be rejected")
	}
	if err := InvoiceNumber("NF-e 123"); err == nil {
		t.Fatalf("expected letters to be rejected")
	}
}

func TestNCM(t *testing.T) {
	if err := NCM("84713012"); err != nil {
		t.Fatalf("expected bare ncm to be valid, got %v", err)
	}
	if err := NCM("8471.30.12"); err != nil {
		t.Fatalf("expected masked ncm to be valid, got %v", err)
	}
	for _, value := range []string{"", "8471301", "847130123"} {
		if err := NCM(value); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}

func TestCFOP(t *testing.T) {
	if err := CFOP("5102"); err != nil {
		t.Fatalf("expected cfop to be valid, got %v", err)
	}
	for _, value := range []string{"", "510", "51021"} {
		if err := CFOP(value); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	if got := DigitsOnly("12.345.678/0001-90"); got != "12345678000190" {
		t.Fatalf("unexpected digits: %s", got)
	}
}
