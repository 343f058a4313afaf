package security

import (
    "testing"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
)

func setTestSecrets(t *testing.T) {
    t.Helper()
    config.Cfg.JWTAccessSecret = "test-access-secret"
    config.Cfg.JWTRefreshSecret = "test-refresh-secret"
    t.Cleanup(func() {
        config.Cfg.JWTAccessSecret = ""
        config.Cfg.JWTRefreshSecret = ""
    })
}

func TestSignAccessTokenRequiresSecret(t *testing.T) {
    config.Cfg.JWTAccessSecret = ""
    if _, err := SignAccessToken(1, UserTypePatient); err == nil {
        t.Error("expected error without access secret")
    }
}

func TestRefreshTokenRoundTrip(t *testing.T) {
    setTestSecrets(t)

    token, err := SignRefreshToken(42, UserTypeDoctor)
    if err != nil {
        t.Fatalf("sign: %v", err)
    }

    claims, err := VerifyRefreshToken(token)
    if err != nil {
        t.Fatalf("verify: %v", err)
    }
    if claims["sub"] != "42" {
        t.Errorf("sub = %v, want 42", claims["sub"])
    }
    if claims["utype"] != UserTypeDoctor {
        t.Errorf("utype = %v, want doctor", claims["utype"])
    }
}

func TestVerifyRefreshTokenRejectsAccessToken(t *testing.T) {
    setTestSecrets(t)

    // Sign an access-type token with the refresh secret so only the
    // type check can fail.
    config.Cfg.JWTAccessSecret = config.Cfg.JWTRefreshSecret
    token, err := SignAccessToken(42, UserTypePatient)
    if err != nil {
        t.Fatalf("sign: %v", err)
    }

    if _, err := VerifyRefreshToken(token); err == nil {
        t.Error("expected rejection of access token")
    }
}

func TestVerifyRefreshTokenRejectsGarbage(t *testing.T) {
    setTestSecrets(t)

    if _, err := VerifyRefreshToken("not.a.token"); err == nil {
        t.Error("expected error for malformed token")
    }
}

func TestAccountTable(t *testing.T) {
    cases := []struct {
        userType string
        table    string
        idColumn string
        ok       bool
    }{
        {UserTypePatient, "patients", "pt_id", true},
        {UserTypeDoctor, "doctors", "doc_id", true},
        {UserTypeAdmin, "admins", "admin_id", true},
        {"superuser", "", "", false},
    }
    for _, c := range cases {
        table, idColumn, ok := accountTable(c.userType)
        if table != c.table || idColumn != c.idColumn || ok != c.ok {
            t.Errorf("accountTable(%q) = (%q, %q, %v), want (%q, %q, %v)",
                c.userType, table, idColumn, ok, c.table, c.idColumn, c.ok)
        }
    }
}
