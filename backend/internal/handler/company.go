package handler

import (
	"net/http"

	"github.com/clientspot/clientspot/shared/api"
	mw "github.com/clientspot/clientspot/shared/middleware"
	"github.com/clientspot/clientspot/shared/utils"
)

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.company.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	resp := api.CompanyListResponse{Companies: make([]api.CompanyResponse, 0, len(companies))}
	for _, c := range companies {
		resp.Companies = append(resp.Companies, api.NewCompanyResponse(c))
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "companyId", "company ID")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	company, err := h.company.Get(r.Context(), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.NewCompanyResponse(company))
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req api.CreateCompanyRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	company, err := h.company.Create(r.Context(), mw.GetUserFromContext(r), req.ToDomain())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.NewCompanyResponse(company))
}

func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "companyId", "company ID")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var req api.UpdateCompanyRequest
	if err := utils.Decode(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	company, err := h.company.Update(r.Context(), mw.GetUserFromContext(r), id, req.ToPatch())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.NewCompanyResponse(company))
}

func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "companyId", "company ID")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.company.Delete(r.Context(), mw.GetUserFromContext(r), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Company deleted"})
}

// AdminDeleteCompany handles DELETE /v1/admin/companies/{companyId}
func (h *Handler) AdminDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "companyId", "company ID")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.company.AdminDelete(r.Context(), mw.GetUserFromContext(r), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Company deleted"})
}
