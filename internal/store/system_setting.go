package store

import (
	"context"
	"encoding/json"

	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/model"
	"github.com/Davidnet/BookWise/internal/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GetSystemSetting returns nil when the setting has never been stored.
func (s *Store) GetSystemSetting(ctx context.Context, name string) (*model.SystemSetting, error) {
	if cache, ok := s.SystemSettingCache.Load(name); ok {
		return cache.(*model.SystemSetting), nil
	}

	doc, err := s.driver.Get(ctx, SettingsCollection, name)
	if err != nil {
		return nil, storeError("get system setting", err)
	}
	if doc == nil {
		return nil, nil
	}
	setting := &model.SystemSetting{}
	if err := json.Unmarshal(doc.Data, setting); err != nil {
		return nil, errors.Wrap(err, "failed to decode system setting")
	}
	s.SystemSettingCache.Store(name, setting)
	return setting, nil
}

func (s *Store) UpsetSystemSetting(ctx context.Context, setting *model.SystemSetting) (*model.SystemSetting, error) {
	if setting.Name != model.SettingTypeSecurity {
		log.Debug("Unsupported system setting key", zap.String("setting", setting.Name))
		return nil, errors.Errorf("unsupported system setting key: %v", setting.Name)
	}
	// Normalize the value through its typed form.
	security, err := setting.GetSecurity()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode setting value")
	}
	newSetting := &model.SystemSetting{
		Name:        setting.Name,
		Value:       security.ToJSON(),
		Description: setting.Description,
	}

	data, err := json.Marshal(newSetting)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode system setting")
	}
	if err := s.driver.Set(ctx, SettingsCollection, newSetting.Name, data); err != nil {
		return nil, storeError("upsert system setting", err)
	}
	s.SystemSettingCache.Store(newSetting.Name, newSetting)
	return newSetting, nil
}

// GetOrUpsetSystemSecuritySetting returns the signing secret. A configured
// secret wins, otherwise the stored one is used, generating it on first start.
func (s *Store) GetOrUpsetSystemSecuritySetting(ctx context.Context, configured string) (*model.SystemSettingSecurity, error) {
	if configured != "" {
		return &model.SystemSettingSecurity{JWTSecret: configured}, nil
	}

	systemSetting, err := s.GetSystemSetting(ctx, model.SettingTypeSecurity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get security settings")
	}
	securitySetting := &model.SystemSettingSecurity{}
	if systemSetting != nil {
		securitySetting, err = systemSetting.GetSecurity()
		if err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal security settings")
		}
	}
	if securitySetting.JWTSecret != "" {
		return securitySetting, nil
	}

	log.Debug("No JWT secret found, create it")
	secret, err := util.RandomString(32)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate JWT secret")
	}
	securitySetting = &model.SystemSettingSecurity{JWTSecret: secret}
	if _, err := s.UpsetSystemSetting(ctx, &model.SystemSetting{
		Name:        model.SettingTypeSecurity,
		Value:       securitySetting.ToJSON(),
		Description: "JWT signing secret",
	}); err != nil {
		return nil, errors.Wrap(err, "failed to upset security settings")
	}
	log.Debug("Security setting created", zap.String("type", model.SettingTypeSecurity))
	return securitySetting, nil
}
