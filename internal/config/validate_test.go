package config

import "testing"

func TestValidateSiteName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid fqdn", value: "erp.example.com", wantErr: false},
		{name: "valid local site", value: "erp.localhost", wantErr: false},
		{name: "valid with hyphens", value: "my-erp.example-site.org", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "no dot", value: "erplocal", wantErr: true},
		{name: "contains space", value: "erp local.com", wantErr: true},
		{name: "label starts with hyphen", value: "-erp.example.com", wantErr: true},
		{name: "label ends with hyphen", value: "erp-.example.com", wantErr: true},
		{name: "underscore rejected", value: "erp_site.example.com", wantErr: true},
		{name: "trailing dot", value: "erp.example.com.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSiteName(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSiteName(%q) = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "v16.7.3", wantErr: false},
		{name: "valid older major", value: "v14.0.1", wantErr: false},
		{name: "missing v prefix", value: "16.7.3", wantErr: true},
		{name: "two segments", value: "v16.7", wantErr: true},
		{name: "four segments", value: "v16.7.3.1", wantErr: true},
		{name: "branch name", value: "version-16", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVersion(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVersion(%q) = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHTTPPort(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "lower bound", value: "1024", wantErr: false},
		{name: "upper bound", value: "65535", wantErr: false},
		{name: "typical", value: "8080", wantErr: false},
		{name: "privileged port", value: "80", wantErr: true},
		{name: "out of range", value: "70000", wantErr: true},
		{name: "below lower bound", value: "1023", wantErr: true},
		{name: "leading zero not canonical", value: "08080", wantErr: true},
		{name: "not a number", value: "http", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHTTPPort(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHTTPPort(%q) = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSSHPort(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "lower bound", value: "1", wantErr: false},
		{name: "upper bound", value: "65535", wantErr: false},
		{name: "default", value: "22", wantErr: false},
		{name: "zero", value: "0", wantErr: true},
		{name: "out of range", value: "65536", wantErr: true},
		{name: "negative", value: "-22", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSSHPort(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSSHPort(%q) = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "ops@example.com", wantErr: false},
		{name: "subdomain", value: "admin@mail.example.co.uk", wantErr: false},
		{name: "no at sign", value: "ops.example.com", wantErr: true},
		{name: "no domain dot", value: "ops@example", wantErr: true},
		{name: "contains space", value: "ops @example.com", wantErr: true},
		{name: "empty local part", value: "@example.com", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "minimum length", value: "123456", wantErr: false},
		{name: "long", value: "correct-horse-battery", wantErr: false},
		{name: "too short", value: "12345", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
