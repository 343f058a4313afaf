package models

type Admin struct {
    AdminID      int64   `json:"AdminID" db:"admin_id"`
    AdminName    string  `json:"AdminName" db:"admin_name"`
    AdminEmail   string  `json:"AdminEmail" db:"admin_email"`
    PhoneNum     *string `json:"PhoneNum" db:"phone_num"`
    AdminPFP     *string `json:"AdminPFP" db:"admin_pfp"`
    IsSuperAdmin bool    `json:"IsSuperAdmin" db:"is_super_admin"`
    IsActive     bool    `json:"IsActive" db:"is_active"`
}
